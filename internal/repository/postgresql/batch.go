package postgresql

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// valuesList renders "($1, $2), ($3, $4)" for rows of cols placeholders each.
func valuesList(rows, cols int) string {
	groups := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		params := make([]string, cols)
		for j := 0; j < cols; j++ {
			params[j] = fmt.Sprintf("$%d", i*cols+j+1)
		}
		groups = append(groups, "("+strings.Join(params, ", ")+")")
	}
	return strings.Join(groups, ", ")
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
