package services

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors mapped to HTTP statuses at the handler layer.
var (
	// ErrNotFound: the referenced row does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrForbidden: authenticated but not permitted, e.g. a club touching
	// another club's event (403).
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials covers unknown email, bad hash and wrong
	// password alike, so login failures are indistinguishable (401).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken: unique key on an actor table rejected the row (409).
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidReference: a foreign key rejected the row (400).
	ErrInvalidReference = errors.New("unknown club or category")
)

// MySQL server error numbers.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

func isMySQLErr(err error, number uint16) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}

// isDuplicateKey reports whether err is a unique constraint violation. A
// signup race on the same email loses here rather than in the pre-check, and
// must still surface as a conflict, not a 500.
func isDuplicateKey(err error) bool {
	return isMySQLErr(err, mysqlErrDuplicateEntry)
}

// isForeignKeyViolation reports whether err is a missing-parent-row failure.
func isForeignKeyViolation(err error) bool {
	return isMySQLErr(err, mysqlErrNoReferencedRow)
}
