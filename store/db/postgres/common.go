package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// placeholder returns the n-th placeholder for PostgreSQL ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders for PostgreSQL.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// isUniqueViolation reports whether err came from a unique constraint
// (PostgreSQL error class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// nowTs is the current unix timestamp; drivers stamp rows whose caller left
// timestamps at zero.
func nowTs() int64 {
	return time.Now().Unix()
}
