package event_test

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshuyeole/college-event-hub/core/event"
	logsvc "github.com/devanshuyeole/college-event-hub/services/logger"
	dummydb "github.com/devanshuyeole/college-event-hub/storage/database/dummy"
)

func newEventService(t *testing.T) *event.Service {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	return event.NewService(dummydb.NewEventRepository(db), logger)
}

const csvHeader = "title,description,category,location,start_date,end_date\n"

func TestService_BulkImport(t *testing.T) {
	ctx := context.TODO()

	t.Run("empty file", func(t *testing.T) {
		svc := newEventService(t)
		res, err := svc.BulkImport(ctx, "college-1", strings.NewReader(""))
		require.NoError(t, err)
		assert.True(t, res.Rejected)
		assert.Contains(t, res.Errors, "empty CSV file")
	})

	t.Run("missing required columns", func(t *testing.T) {
		svc := newEventService(t)
		res, err := svc.BulkImport(ctx, "college-1", strings.NewReader("title,category\nTech Fest,Hackathon\n"))
		require.NoError(t, err)
		assert.True(t, res.Rejected)
		assert.Equal(t, 0, res.Imported)
		require.Len(t, res.Errors, 3) // location, start_date, end_date
	})

	t.Run("valid rows imported", func(t *testing.T) {
		svc := newEventService(t)
		data := csvHeader +
			"Tech Fest,Annual fest,Hackathon,Main Hall,2026-12-01 10:00:00,2026-12-01 17:00:00\n" +
			"AI Workshop,,Workshop,Lab 2,2026-12-05,2026-12-06\n"
		res, err := svc.BulkImport(ctx, "college-1", strings.NewReader(data))
		require.NoError(t, err)
		assert.False(t, res.Rejected)
		assert.Equal(t, 2, res.Imported)
		assert.Equal(t, 2, res.Total)
		assert.Empty(t, res.Errors)

		events, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, evt := range events {
			assert.Equal(t, "college-1", evt.CollegeID)
		}
	})

	t.Run("accepts every documented date layout", func(t *testing.T) {
		svc := newEventService(t)
		data := csvHeader +
			"A,,Workshop,Lab,2026-12-01 10:00:00,2026-12-01 17:00:00\n" +
			"B,,Workshop,Lab,2026-12-02T10:00:00Z,2026-12-02T17:00:00Z\n" +
			"C,,Workshop,Lab,2026-12-03,2026-12-04\n"
		res, err := svc.BulkImport(ctx, "college-1", strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 3, res.Imported)
	})

	t.Run("one bad row rejects the whole batch", func(t *testing.T) {
		svc := newEventService(t)
		data := csvHeader +
			"Tech Fest,Annual fest,Hackathon,Main Hall,2026-12-01 10:00:00,2026-12-01 17:00:00\n" +
			"Broken,,Workshop,Lab 2,not-a-date,2026-12-06\n" +
			"Late,,Workshop,Lab 3,2026-12-07,2026-12-08\n"
		res, err := svc.BulkImport(ctx, "college-1", strings.NewReader(data))
		require.NoError(t, err)
		assert.True(t, res.Rejected)
		assert.Equal(t, 0, res.Imported)
		assert.Equal(t, 3, res.Total)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "row 2")
		assert.Contains(t, res.Errors[0], "start_date")

		events, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("missing fields named per row", func(t *testing.T) {
		svc := newEventService(t)
		data := csvHeader + "Tech Fest,,Hackathon,,2026-12-01,2026-12-02\n"
		res, err := svc.BulkImport(ctx, "college-1", strings.NewReader(data))
		require.NoError(t, err)
		assert.True(t, res.Rejected)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "row 1")
		assert.Contains(t, res.Errors[0], "location")
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		val     string
		want    time.Time
		wantErr bool
	}{
		{val: "2026-12-01 10:30:00", want: time.Date(2026, 12, 1, 10, 30, 0, 0, time.UTC)},
		{val: "2026-12-01T10:30:00Z", want: time.Date(2026, 12, 1, 10, 30, 0, 0, time.UTC)},
		{val: "2026-12-01", want: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)},
		{val: "01/12/2026", wantErr: true},
		{val: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			got, err := event.ParseDate(tt.val)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}
}
