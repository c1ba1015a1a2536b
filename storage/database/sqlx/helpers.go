package sqlxrepos

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// uniqueViolation is the postgres error code raised when an INSERT breaks a
// UNIQUE constraint. Repositories map it to their domain's conflict error so
// the constraint, not a prior read, decides duplicate races.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

func newID() string {
	return uuid.NewString()
}
