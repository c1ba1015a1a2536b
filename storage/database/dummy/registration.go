package dummydb

import (
	"context"
	"sort"

	"github.com/devanshuyeole/college-event-hub/core/registration"
)

type registrationRepository struct {
	db *DB
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *DB) registration.Repository {
	return &registrationRepository{db: db}
}

func (repo *registrationRepository) CreateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, error) {
	repo.db.registration.Lock()
	for _, existing := range repo.db.registration.table {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID {
			repo.db.registration.Unlock()
			return registration.Registration{}, registration.ErrAlreadyRegistered
		}
	}
	reg.ID = nextID()
	repo.db.registration.table[reg.ID] = &reg
	repo.db.registration.Unlock()

	repo.db.event.Lock()
	if evt, ok := repo.db.event.table[reg.EventID]; ok {
		evt.RegistrationCount++
	}
	repo.db.event.Unlock()
	return reg, nil
}

func (repo *registrationRepository) QueryEventRegistrations(ctx context.Context, eventID string) ([]registration.EventRegistrationRow, error) {
	repo.db.registration.RLock()
	regs := []registration.Registration{}
	for _, reg := range repo.db.registration.table {
		if reg.EventID == eventID {
			regs = append(regs, *reg)
		}
	}
	repo.db.registration.RUnlock()

	sort.Slice(regs, func(i, j int) bool { return regs[i].CreatedAt.After(regs[j].CreatedAt) })

	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	rows := make([]registration.EventRegistrationRow, 0, len(regs))
	for _, reg := range regs {
		row := registration.EventRegistrationRow{
			ID:        reg.ID,
			Status:    reg.Status,
			Timestamp: reg.CreatedAt,
		}
		if usr, ok := repo.db.user.table[reg.UserID]; ok {
			row.StudentName = usr.Name
			row.Email = usr.Email
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (repo *registrationRepository) QueryUserRegistrations(ctx context.Context, userID string) ([]registration.UserRegistrationRow, error) {
	repo.db.registration.RLock()
	regs := []registration.Registration{}
	for _, reg := range repo.db.registration.table {
		if reg.UserID == userID {
			regs = append(regs, *reg)
		}
	}
	repo.db.registration.RUnlock()

	sort.Slice(regs, func(i, j int) bool { return regs[i].CreatedAt.After(regs[j].CreatedAt) })

	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	rows := make([]registration.UserRegistrationRow, 0, len(regs))
	for _, reg := range regs {
		row := registration.UserRegistrationRow{
			ID:        reg.ID,
			Status:    reg.Status,
			Timestamp: reg.CreatedAt,
		}
		if evt, ok := repo.db.event.table[reg.EventID]; ok {
			row.Title = evt.Title
			row.Location = evt.Location
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (repo *registrationRepository) SetRegistrationStatus(ctx context.Context, id, status string) error {
	repo.db.registration.Lock()
	defer repo.db.registration.Unlock()

	reg, ok := repo.db.registration.table[id]
	if !ok {
		return registration.ErrNotFound
	}
	if reg.Status != registration.StatusPending {
		return registration.ErrStatusFinal
	}
	reg.Status = status
	return nil
}
