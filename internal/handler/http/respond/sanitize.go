package respond

import (
	"regexp"
)

var (
	// credentials embedded in connection URLs (postgres://, redis://)
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
	// password passed as a DSN query or key=value parameter
	passwordParamPattern = regexp.MustCompile(`(?i)(password=)[^&\s]+`)
)

// SanitizeError returns the error message with credentials masked, safe for
// log output.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = passwordParamPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
