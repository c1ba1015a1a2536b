package dummydb

import (
	"context"
	"sort"

	"github.com/devanshuyeole/college-event-hub/core/feedback"
)

type feedbackRepository struct {
	db *DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.feedback.Lock()
	defer repo.db.feedback.Unlock()

	for _, existing := range repo.db.feedback.table {
		if existing.EventID == fb.EventID && existing.UserID == fb.UserID {
			return feedback.Feedback{}, feedback.ErrAlreadyGiven
		}
	}
	fb.ID = nextID()
	repo.db.feedback.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) CountUserFeedback(ctx context.Context, userID string) (int, error) {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	var count int
	for _, fb := range repo.db.feedback.table {
		if fb.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (repo *feedbackRepository) QueryEventFeedback(ctx context.Context, eventID string) ([]feedback.EventFeedbackRow, error) {
	repo.db.feedback.RLock()
	entries := []feedback.Feedback{}
	for _, fb := range repo.db.feedback.table {
		if fb.EventID == eventID {
			entries = append(entries, *fb)
		}
	}
	repo.db.feedback.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	rows := make([]feedback.EventFeedbackRow, 0, len(entries))
	for _, fb := range entries {
		row := feedback.EventFeedbackRow{
			ID:        fb.ID,
			Rating:    fb.Rating,
			Comments:  fb.Comments,
			Timestamp: fb.CreatedAt,
		}
		if usr, ok := repo.db.user.table[fb.UserID]; ok {
			row.StudentName = usr.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (repo *feedbackRepository) GetEventFeedbackStats(ctx context.Context, eventID string) (feedback.EventStats, error) {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	var stats feedback.EventStats
	var sum int
	for _, fb := range repo.db.feedback.table {
		if fb.EventID != eventID {
			continue
		}
		stats.TotalFeedback++
		sum += fb.Rating
		if fb.Rating >= 4 {
			stats.PositiveRatings++
		}
	}
	if stats.TotalFeedback > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalFeedback)
	}
	return stats, nil
}

func (repo *feedbackRepository) GetAnalytics(ctx context.Context) (feedback.Analytics, error) {
	repo.db.feedback.RLock()
	entries := make([]feedback.Feedback, 0, len(repo.db.feedback.table))
	for _, fb := range repo.db.feedback.table {
		entries = append(entries, *fb)
	}
	repo.db.feedback.RUnlock()

	var analytics feedback.Analytics
	analytics.RatingDistribution = []feedback.RatingBucket{}
	analytics.TopEvents = []feedback.TopEventRow{}
	analytics.RecentFeedback = []feedback.RecentRow{}

	if len(entries) == 0 {
		return analytics, nil
	}

	var sum int
	events := make(map[string]bool)
	dist := make(map[int]int)
	for _, fb := range entries {
		sum += fb.Rating
		events[fb.EventID] = true
		dist[fb.Rating]++
	}
	analytics.Overall.TotalFeedback = len(entries)
	analytics.Overall.EventsWithFeedback = len(events)
	analytics.Overall.AverageRating = float64(sum) / float64(len(entries))

	for rating := 1; rating <= 5; rating++ {
		if dist[rating] > 0 {
			analytics.RatingDistribution = append(analytics.RatingDistribution, feedback.RatingBucket{
				Rating: rating,
				Count:  dist[rating],
			})
		}
	}

	type eventAgg struct {
		sum, count int
	}
	perEvent := make(map[string]*eventAgg)
	for _, fb := range entries {
		agg, ok := perEvent[fb.EventID]
		if !ok {
			agg = &eventAgg{}
			perEvent[fb.EventID] = agg
		}
		agg.sum += fb.Rating
		agg.count++
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	recent := entries
	if len(recent) > 10 {
		recent = recent[:10]
	}

	repo.db.event.RLock()
	repo.db.user.RLock()
	for id, agg := range perEvent {
		evt, ok := repo.db.event.table[id]
		if !ok {
			continue
		}
		analytics.TopEvents = append(analytics.TopEvents, feedback.TopEventRow{
			Title:         evt.Title,
			Category:      evt.Category,
			FeedbackCount: agg.count,
			AverageRating: float64(agg.sum) / float64(agg.count),
		})
	}
	sort.Slice(analytics.TopEvents, func(i, j int) bool {
		if analytics.TopEvents[i].AverageRating != analytics.TopEvents[j].AverageRating {
			return analytics.TopEvents[i].AverageRating > analytics.TopEvents[j].AverageRating
		}
		return analytics.TopEvents[i].FeedbackCount > analytics.TopEvents[j].FeedbackCount
	})
	if len(analytics.TopEvents) > 5 {
		analytics.TopEvents = analytics.TopEvents[:5]
	}

	for _, fb := range recent {
		row := feedback.RecentRow{
			Rating:    fb.Rating,
			Comments:  fb.Comments,
			Timestamp: fb.CreatedAt,
		}
		if evt, ok := repo.db.event.table[fb.EventID]; ok {
			row.EventTitle = evt.Title
		}
		if usr, ok := repo.db.user.table[fb.UserID]; ok {
			row.StudentName = usr.Name
		}
		analytics.RecentFeedback = append(analytics.RecentFeedback, row)
	}
	repo.db.user.RUnlock()
	repo.db.event.RUnlock()

	return analytics, nil
}
