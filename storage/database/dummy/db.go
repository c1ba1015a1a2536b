package dummydb

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devanshuyeole/college-event-hub/core/bookmark"
	"github.com/devanshuyeole/college-event-hub/core/event"
	"github.com/devanshuyeole/college-event-hub/core/feedback"
	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/registration"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

// DB is an in-memory store for tests. It honors the same uniqueness rules as
// the SQL schema so the conflict paths stay testable.
type (
	DB struct {
		user         *userTable
		event        *eventTable
		registration *registrationTable
		feedback     *feedbackTable
		notification *notificationTable
		bookmark     *bookmarkTable
	}

	userTable struct {
		sync.RWMutex
		table     map[string]*user.User
		adminLogs []adminLogRow
	}

	eventTable struct {
		sync.RWMutex
		table    map[string]*event.Event
		comments map[string]*commentRow
		activity []activityRow
	}

	registrationTable struct {
		sync.RWMutex
		table map[string]*registration.Registration
	}

	feedbackTable struct {
		sync.RWMutex
		table map[string]*feedback.Feedback
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}

	bookmarkTable struct {
		sync.RWMutex
		table map[string]*bookmark.Bookmark // keyed user_id|event_id
	}

	adminLogRow struct {
		Action    string
		ActorID   string
		CreatedAt time.Time
	}

	commentRow struct {
		ID        string
		EventID   string
		UserID    string
		Comment   string
		CreatedAt time.Time
	}

	activityRow struct {
		UserID       string
		EventID      string
		ActivityType string
		CreatedAt    time.Time
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		event: &eventTable{
			table:    make(map[string]*event.Event),
			comments: make(map[string]*commentRow),
		},
		registration: &registrationTable{table: make(map[string]*registration.Registration)},
		feedback:     &feedbackTable{table: make(map[string]*feedback.Feedback)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
		bookmark:     &bookmarkTable{table: make(map[string]*bookmark.Bookmark)},
	}
	return db, nil
}

var pkCount int64

func nextID() string {
	return strconv.FormatInt(atomic.AddInt64(&pkCount, 1), 10)
}
