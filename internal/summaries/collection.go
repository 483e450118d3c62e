package summaries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"coursesum/internal/kvstore"
	"coursesum/internal/logging"
)

// Option customizes a Collection.
type Option func(*Collection)

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides NewID.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(c *Collection) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithLogger sets the collection logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collection) {
		c.logger = logging.NewComponentLogger(logger, "summaries")
	}
}

// Collection reads and writes saved summaries in a store.
type Collection struct {
	store  kvstore.Store
	now    func() time.Time
	newID  func() (string, error)
	logger *slog.Logger
}

// NewCollection wraps store.
func NewCollection(store kvstore.Store, opts ...Option) *Collection {
	c := &Collection{
		store:  store,
		now:    time.Now,
		newID:  NewID,
		logger: logging.NewComponentLogger(nil, "summaries"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// load returns records in stored order. A missing key is an empty collection.
func (c *Collection) load(ctx context.Context) ([]Record, error) {
	values, err := c.store.Get(ctx, kvstore.KeySavedSummaries)
	if err != nil {
		return nil, err
	}
	var records []Record
	if _, err := values.Decode(kvstore.KeySavedSummaries, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// List returns every record, newest first.
func (c *Collection) List(ctx context.Context) ([]Record, error) {
	records, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list saved summaries: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

// Get returns the record with id.
func (c *Collection) Get(ctx context.Context, id string) (Record, error) {
	records, err := c.load(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("get saved summary: %w", err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Append adds rec to the collection. Ids must be unique.
func (c *Collection) Append(ctx context.Context, rec Record) error {
	records, err := c.load(ctx)
	if err != nil {
		return &StoreWriteError{Op: "read", Err: err}
	}
	for _, existing := range records {
		if existing.ID == rec.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
	}
	records = append(records, rec)
	if err := c.store.Set(ctx, map[string]any{kvstore.KeySavedSummaries: records}); err != nil {
		return &StoreWriteError{Op: "write", Err: err}
	}
	return nil
}

// Save creates a record for markdown captured at url and appends it.
func (c *Collection) Save(ctx context.Context, markdown, url string) (Record, error) {
	if strings.TrimSpace(markdown) == "" {
		return Record{}, ErrNothingToSave
	}
	id, err := c.newID()
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:        id,
		Timestamp: c.now().UnixMilli(),
		URL:       url,
		Summary:   markdown,
	}
	if err := c.Append(ctx, rec); err != nil {
		logging.WarnWithContext(c.logger, "summary save failed", "summary_save_failed",
			logging.Error(err),
			logging.String(logging.FieldSourceURL, url),
			logging.String(logging.FieldImpact, "summary not saved"),
			logging.String(logging.FieldErrorHint, "retry the save"),
		)
		return Record{}, err
	}
	c.logger.Info("summary saved",
		logging.String("id", rec.ID),
		logging.String(logging.FieldSourceURL, url),
	)
	return rec, nil
}

// Delete removes the record with id. It reports whether a record was removed.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	records, err := c.load(ctx)
	if err != nil {
		return false, &StoreWriteError{Op: "read", Err: err}
	}
	kept := records[:0:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := c.store.Set(ctx, map[string]any{kvstore.KeySavedSummaries: kept}); err != nil {
		return false, &StoreWriteError{Op: "delete", Err: err}
	}
	c.logger.Info("summary deleted", logging.String("id", id))
	return true, nil
}

// DeleteAll removes the collection key.
func (c *Collection) DeleteAll(ctx context.Context) error {
	if err := c.store.Remove(ctx, kvstore.KeySavedSummaries); err != nil {
		return &StoreWriteError{Op: "clear", Err: err}
	}
	c.logger.Info("all summaries deleted")
	return nil
}
