package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/registration"
)

type registrationRepository struct {
	db *sqlx.DB
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *sqlx.DB) registration.Repository {
	return &registrationRepository{db: db}
}

// CreateRegistration inserts the row and bumps the event's denormalized
// registration_count in one transaction, so a failed insert never skews the
// counter.
func (repo *registrationRepository) CreateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, error) {
	reg.ID = newID()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return registration.Registration{}, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	const ins = `
	INSERT INTO registrations (id, event_id, user_id, status, created_at)
	VALUES (:id, :event_id, :user_id, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, ins, reg); err != nil {
		if isUniqueViolation(err) {
			return registration.Registration{}, registration.ErrAlreadyRegistered
		}
		return registration.Registration{}, errors.Wrap(err, "inserting registration")
	}

	const bump = `UPDATE events SET registration_count = registration_count + 1 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, bump, reg.EventID); err != nil {
		return registration.Registration{}, errors.Wrap(err, "incrementing registration count")
	}

	if err := tx.Commit(); err != nil {
		return registration.Registration{}, errors.Wrap(err, "committing registration")
	}
	return reg, nil
}

func (repo *registrationRepository) QueryEventRegistrations(ctx context.Context, eventID string) ([]registration.EventRegistrationRow, error) {
	rows := []registration.EventRegistrationRow{}
	const query = `
	SELECT r.id, u.name AS student_name, u.email, r.status, r.created_at AS timestamp
	FROM registrations r
	JOIN users u ON u.id = r.user_id
	WHERE r.event_id = $1
	ORDER BY r.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, errors.Wrap(err, "selecting event registrations")
	}
	return rows, nil
}

func (repo *registrationRepository) QueryUserRegistrations(ctx context.Context, userID string) ([]registration.UserRegistrationRow, error) {
	rows := []registration.UserRegistrationRow{}
	const query = `
	SELECT r.id, e.title, e.location, r.status, r.created_at AS timestamp
	FROM registrations r
	JOIN events e ON e.id = r.event_id
	WHERE r.user_id = $1
	ORDER BY r.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "selecting user registrations")
	}
	return rows, nil
}

// SetRegistrationStatus only moves pending registrations. A decided one
// returns ErrStatusFinal, a missing one ErrNotFound.
func (repo *registrationRepository) SetRegistrationStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE registrations SET status = $2 WHERE id = $1 AND status = 'pending'`
	res, err := repo.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return errors.Wrap(err, "updating registration status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n > 0 {
		return nil
	}

	var current string
	if err := repo.db.GetContext(ctx, &current, `SELECT status FROM registrations WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return registration.ErrNotFound
		}
		return errors.Wrap(err, "selecting registration status")
	}
	return registration.ErrStatusFinal
}
