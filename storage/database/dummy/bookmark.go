package dummydb

import (
	"context"
	"sort"

	"github.com/devanshuyeole/college-event-hub/core/bookmark"
)

type bookmarkRepository struct {
	db *DB
}

var _ bookmark.Repository = (*bookmarkRepository)(nil) // interface compliance check

func NewBookmarkRepository(db *DB) bookmark.Repository {
	return &bookmarkRepository{db: db}
}

func bookmarkKey(userID, eventID string) string {
	return userID + "|" + eventID
}

func (repo *bookmarkRepository) CreateBookmark(ctx context.Context, bm bookmark.Bookmark) error {
	repo.db.bookmark.Lock()
	defer repo.db.bookmark.Unlock()

	key := bookmarkKey(bm.UserID, bm.EventID)
	if _, ok := repo.db.bookmark.table[key]; ok {
		return bookmark.ErrExists
	}
	repo.db.bookmark.table[key] = &bm
	return nil
}

func (repo *bookmarkRepository) DeleteBookmark(ctx context.Context, userID, eventID string) (bool, error) {
	repo.db.bookmark.Lock()
	defer repo.db.bookmark.Unlock()

	key := bookmarkKey(userID, eventID)
	if _, ok := repo.db.bookmark.table[key]; !ok {
		return false, nil
	}
	delete(repo.db.bookmark.table, key)
	return true, nil
}

func (repo *bookmarkRepository) QueryUserBookmarks(ctx context.Context, userID string) ([]bookmark.BookmarkedEvent, error) {
	repo.db.bookmark.RLock()
	marks := []bookmark.Bookmark{}
	for _, bm := range repo.db.bookmark.table {
		if bm.UserID == userID {
			marks = append(marks, *bm)
		}
	}
	repo.db.bookmark.RUnlock()

	sort.Slice(marks, func(i, j int) bool { return marks[i].CreatedAt.After(marks[j].CreatedAt) })

	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	rows := []bookmark.BookmarkedEvent{}
	for _, bm := range marks {
		evt, ok := repo.db.event.table[bm.EventID]
		if !ok {
			continue
		}
		rows = append(rows, bookmark.BookmarkedEvent{
			Event:        *evt,
			BookmarkedAt: bm.CreatedAt,
		})
	}
	return rows, nil
}

func (repo *bookmarkRepository) BookmarkExists(ctx context.Context, userID, eventID string) (bool, error) {
	repo.db.bookmark.RLock()
	defer repo.db.bookmark.RUnlock()

	_, ok := repo.db.bookmark.table[bookmarkKey(userID, eventID)]
	return ok, nil
}
