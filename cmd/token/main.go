// Command token mints an access token for local development. Production tokens are
// issued by the identity provider in front of this service.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/user"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/jwt"
)

func main() {
	var (
		userID = flag.String("user", "dev-user", "user_id claim")
		role   = flag.String("role", string(user.RoleAdmin), "role claim")
		plants = flag.String("plants", "", "comma separated plant IDs for plant managers")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	r := user.Role(*role)
	if !r.Valid() {
		fmt.Fprintf(os.Stderr, "%v: %s\n", user.ErrInvalidRole, *role)
		os.Exit(1)
	}

	var plantIDs []string
	for _, id := range strings.Split(*plants, ",") {
		if id = strings.TrimSpace(id); id != "" {
			plantIDs = append(plantIDs, id)
		}
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, r, plantIDs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
}
