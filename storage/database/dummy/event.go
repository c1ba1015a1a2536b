package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/devanshuyeole/college-event-hub/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) query() []event.Event {
	events := make([]event.Event, 0, len(repo.db.event.table))
	for _, evt := range repo.db.event.table {
		events = append(events, *evt)
	}
	return events
}

func (repo *eventRepository) annotate(evt event.Event) event.Event {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	var sum, count int
	for _, fb := range repo.db.feedback.table {
		if fb.EventID == evt.ID {
			sum += fb.Rating
			count++
		}
	}
	evt.FeedbackCount = count
	if count > 0 {
		avg := float64(sum) / float64(count)
		evt.AvgRating = &avg
	}
	return evt
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	evt.ID = nextID()
	repo.db.event.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	repo.db.event.RLock()
	events := repo.query()
	repo.db.event.RUnlock()

	sort.Slice(events, func(i, j int) bool { return events[i].StartDate.After(events[j].StartDate) })
	for i := range events {
		events[i] = repo.annotate(events[i])
	}
	return events, nil
}

func (repo *eventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	repo.db.event.RLock()
	evt, ok := repo.db.event.table[id]
	repo.db.event.RUnlock()

	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	return repo.annotate(*evt), nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, id string, ue event.UpdateEvent) (event.Event, error) {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	evt, ok := repo.db.event.table[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	evt.Title = ue.Title
	evt.Description = ue.Description
	evt.Category = ue.Category
	evt.Location = ue.Location
	evt.StartDate = ue.StartDate.UTC()
	evt.EndDate = ue.EndDate.UTC()
	evt.UpdatedAt = time.Now().UTC()
	return *evt, nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	if _, ok := repo.db.event.table[id]; !ok {
		return event.ErrNotFound
	}
	delete(repo.db.event.table, id)
	return nil
}

func (repo *eventRepository) CreateComment(ctx context.Context, eventID, userID, comment string) (event.CommentRow, error) {
	repo.db.event.Lock()
	row := &commentRow{
		ID:        nextID(),
		EventID:   eventID,
		UserID:    userID,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	repo.db.event.comments[row.ID] = row
	repo.db.event.Unlock()

	return event.CommentRow{
		ID:        row.ID,
		Name:      repo.userName(userID),
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (repo *eventRepository) userName(userID string) string {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[userID]; ok {
		return usr.Name
	}
	return ""
}

func (repo *eventRepository) QueryComments(ctx context.Context, eventID string) ([]event.CommentRow, error) {
	repo.db.event.RLock()
	rows := []event.CommentRow{}
	for _, c := range repo.db.event.comments {
		if c.EventID != eventID {
			continue
		}
		rows = append(rows, event.CommentRow{
			ID:        c.ID,
			Name:      "",
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		})
	}
	names := make(map[string]string, len(rows))
	for _, c := range repo.db.event.comments {
		if c.EventID == eventID {
			names[c.ID] = c.UserID
		}
	}
	repo.db.event.RUnlock()

	for i := range rows {
		rows[i].Name = repo.userName(names[rows[i].ID])
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (repo *eventRepository) TopActivityCategories(ctx context.Context, userID string, limit int) ([]string, error) {
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	counts := make(map[string]int)
	for _, a := range repo.db.event.activity {
		if a.UserID != userID {
			continue
		}
		if evt, ok := repo.db.event.table[a.EventID]; ok {
			counts[evt.Category]++
		}
	}

	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > limit {
		categories = categories[:limit]
	}
	return categories, nil
}

func (repo *eventRepository) registeredEventIDs(userID string) map[string]bool {
	repo.db.registration.RLock()
	defer repo.db.registration.RUnlock()

	ids := make(map[string]bool)
	for _, reg := range repo.db.registration.table {
		if reg.UserID == userID {
			ids[reg.EventID] = true
		}
	}
	return ids
}

func (repo *eventRepository) QueryUpcomingByCategories(ctx context.Context, userID string, categories []string, limit int) ([]event.Event, error) {
	registered := repo.registeredEventIDs(userID)
	wanted := make(map[string]bool, len(categories))
	for _, cat := range categories {
		wanted[cat] = true
	}

	repo.db.event.RLock()
	events := repo.query()
	repo.db.event.RUnlock()

	now := time.Now().UTC()
	matched := []event.Event{}
	for _, evt := range events {
		if wanted[evt.Category] && evt.StartDate.After(now) && !registered[evt.ID] {
			matched = append(matched, evt)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (repo *eventRepository) QueryUpcomingPopular(ctx context.Context, userID string, limit int, excludeIDs []string) ([]event.Event, error) {
	registered := repo.registeredEventIDs(userID)
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	repo.db.event.RLock()
	events := repo.query()
	repo.db.event.RUnlock()

	now := time.Now().UTC()
	matched := []event.Event{}
	for _, evt := range events {
		if evt.StartDate.After(now) && !registered[evt.ID] && !excluded[evt.ID] {
			matched = append(matched, evt)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].RegistrationCount != matched[j].RegistrationCount {
			return matched[i].RegistrationCount > matched[j].RegistrationCount
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (repo *eventRepository) LogActivity(ctx context.Context, userID, eventID, activityType string) error {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	repo.db.event.activity = append(repo.db.event.activity, activityRow{
		UserID:       userID,
		EventID:      eventID,
		ActivityType: activityType,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}
