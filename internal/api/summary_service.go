package api

import (
	"context"
	"errors"
	"strings"

	"coursesum/internal/summaries"
)

// SummaryStore abstracts the saved-summary operations the API needs.
type SummaryStore interface {
	List(ctx context.Context) ([]summaries.Record, error)
	Get(ctx context.Context, id string) (summaries.Record, error)
	Save(ctx context.Context, markdown, url string) (summaries.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
}

// SummaryService exposes saved-summary operations returning API DTOs.
type SummaryService struct {
	store SummaryStore
}

// NewSummaryService constructs a SummaryService around the provided store.
func NewSummaryService(store SummaryStore) *SummaryService {
	if store == nil {
		return nil
	}
	return &SummaryService{store: store}
}

// List returns saved summaries, newest first.
func (s *SummaryService) List(ctx context.Context) ([]SummaryItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Describe fetches a single saved summary. It returns nil when id is unknown.
func (s *SummaryService) Describe(ctx context.Context, id string) (*SummaryItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	rec, err := s.store.Get(ctx, strings.TrimSpace(id))
	if errors.Is(err, summaries.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dto := FromRecord(rec)
	return &dto, nil
}

// Save stores markdown generated for url.
func (s *SummaryService) Save(ctx context.Context, markdown, url string) (SummaryItem, error) {
	if s == nil || s.store == nil {
		return SummaryItem{}, errors.New("summary store unavailable")
	}
	rec, err := s.store.Save(ctx, markdown, url)
	if err != nil {
		return SummaryItem{}, err
	}
	return FromRecord(rec), nil
}

// Remove deletes one saved summary and reports whether it existed.
func (s *SummaryService) Remove(ctx context.Context, id string) (bool, error) {
	if s == nil || s.store == nil {
		return false, nil
	}
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

// Clear deletes every saved summary.
func (s *SummaryService) Clear(ctx context.Context) error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.DeleteAll(ctx)
}
