package dummydb

import (
	"context"
	"sort"

	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	n.ID = nextID()
	repo.db.notification.table[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) joinEventTitle(n notification.Notification) notification.Notification {
	if n.EventID == nil {
		return n
	}
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	if evt, ok := repo.db.event.table[*n.EventID]; ok {
		title := evt.Title
		n.EventTitle = &title
	}
	return n
}

func (repo *notificationRepository) QueryUserNotifications(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	repo.db.notification.RLock()
	rows := []notification.Notification{}
	for _, n := range repo.db.notification.table {
		if n.UserID == userID {
			rows = append(rows, *n)
		}
	}
	repo.db.notification.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i] = repo.joinEventTitle(rows[i])
	}
	return rows, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	repo.db.notification.RLock()
	n, ok := repo.db.notification.table[id]
	repo.db.notification.RUnlock()

	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	return repo.joinEventTitle(*n), nil
}

func (repo *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	repo.db.notification.RLock()
	defer repo.db.notification.RUnlock()

	var count int
	for _, n := range repo.db.notification.table {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id string) error {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	n, ok := repo.db.notification.table[id]
	if !ok {
		return notification.ErrNotFound
	}
	n.Read = true
	return nil
}

func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	for _, n := range repo.db.notification.table {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (repo *notificationRepository) DeleteNotification(ctx context.Context, id string) error {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	if _, ok := repo.db.notification.table[id]; !ok {
		return notification.ErrNotFound
	}
	delete(repo.db.notification.table, id)
	return nil
}

func (repo *notificationRepository) QueryStudentIDs(ctx context.Context) ([]string, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	ids := []string{}
	for _, usr := range repo.db.user.table {
		if usr.Role == user.RoleStudent {
			ids = append(ids, usr.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
