package sqlite

import (
	"strings"
	"time"
)

// placeholder returns a placeholder for SQLite (uses ?).
func placeholder(n int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nowTs is the current unix timestamp; drivers stamp rows whose caller left
// timestamps at zero.
func nowTs() int64 {
	return time.Now().Unix()
}
