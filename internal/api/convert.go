package api

import (
	"time"

	"coursesum/internal/summaries"
)

// FromRecord converts a saved summary into its API representation.
func FromRecord(rec summaries.Record) SummaryItem {
	item := SummaryItem{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		URL:       rec.URL,
		Title:     SummaryTitle(rec.Summary, rec.URL),
		Preview:   SummaryPreview(rec.Summary, previewLength),
		Summary:   rec.Summary,
	}
	if rec.Timestamp > 0 {
		item.CreatedAt = rec.Time().UTC().Format(dateTimeFormat)
	}
	return item
}

// FromRecords converts records preserving order.
func FromRecords(records []summaries.Record) []SummaryItem {
	items := make([]SummaryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, FromRecord(rec))
	}
	return items
}

// ParseTimestamp parses a CreatedAt value produced by FromRecord.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateTimeFormat, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
