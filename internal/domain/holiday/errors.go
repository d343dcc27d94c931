package holiday

import "errors"

var (
	ErrInvalidYear = errors.New("year must be between 1900 and 9999")
)
