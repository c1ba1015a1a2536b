package event

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// CSVTemplate is the literal template served to admins for bulk import.
const CSVTemplate = `title,description,category,location,start_date,end_date
Sample Event,This is a sample event description,Workshop,Main Hall,2025-12-01 10:00:00,2025-12-01 17:00:00
Tech Talk,Learn about latest technology trends,Hackathon,Auditorium,2025-12-05 09:00:00,2025-12-05 16:00:00`

var csvRequiredColumns = []string{"title", "category", "location", "start_date", "end_date"}

// csvDateLayouts are accepted in order; the template uses the first.
var csvDateLayouts = []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"}

// ImportResult reports the outcome of a bulk import.
// Validation failures reject the whole batch (Imported stays 0); insertion
// failures are per-row and recorded alongside the running Imported counter.
type ImportResult struct {
	Imported int      `json:"imported"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
	Rejected bool     `json:"-"`
}

// BulkImport streams a CSV of events in a single forward pass. Any row
// failing validation rejects the batch before anything is inserted. Once
// inserting, a failed row does not roll back earlier rows.
func (svc *Service) BulkImport(ctx context.Context, collegeID string, r io.Reader) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		res.Rejected = true
		res.Errors = append(res.Errors, "empty CSV file")
		return res, nil
	}
	if err != nil {
		return res, errors.Wrap(err, "reading CSV header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvRequiredColumns {
		if _, ok := cols[required]; !ok {
			res.Rejected = true
			res.Errors = append(res.Errors, fmt.Sprintf("missing required column %q", required))
		}
	}
	if res.Rejected {
		return res, nil
	}

	var rows []NewEvent
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		field := func(name string) string {
			i := cols[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var missing []string
		for _, required := range csvRequiredColumns {
			if field(required) == "" {
				missing = append(missing, required)
			}
		}
		if len(missing) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: missing required fields: %s", rowNum, strings.Join(missing, ", ")))
			continue
		}

		start, err := parseCSVDate(field("start_date"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: invalid start_date %q", rowNum, field("start_date")))
			continue
		}
		end, err := parseCSVDate(field("end_date"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: invalid end_date %q", rowNum, field("end_date")))
			continue
		}

		var description string
		if i, ok := cols["description"]; ok && i < len(record) {
			description = strings.TrimSpace(record[i])
		}
		rows = append(rows, NewEvent{
			Title:       field("title"),
			Description: description,
			Category:    field("category"),
			Location:    field("location"),
			StartDate:   start,
			EndDate:     end,
		})
	}
	res.Total = len(rows) + len(res.Errors)

	// all-or-nothing gate at the validation stage
	if len(res.Errors) > 0 {
		res.Rejected = true
		return res, nil
	}

	for _, ne := range rows {
		if _, err := svc.Create(ctx, collegeID, ne); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("failed to import event %q: %v", ne.Title, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ParseDate accepts the same date layouts the CSV importer does.
func ParseDate(val string) (time.Time, error) {
	return parseCSVDate(val)
}

func parseCSVDate(val string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date %q", val)
}
