package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"coursesum/internal/kvstore"
	"coursesum/internal/logging"
	"coursesum/internal/render"
	"coursesum/internal/services/llm"
	"coursesum/internal/summaries"
	"coursesum/internal/transcript"
)

// Summarizer produces Markdown from transcript text. *llm.Client satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, apiKey string) (string, error)
}

// Page is the host page a summary is requested for.
type Page struct {
	HTML string
	URL  string
}

// Outcome is a successful summarization.
type Outcome struct {
	Markdown   string
	Rendered   render.Result
	Transcript string
	URL        string
}

// Deps are the collaborators a Session drives.
type Deps struct {
	Store      kvstore.Store
	Extractor  transcript.Extractor
	Summarizer Summarizer
	Renderer   *render.Renderer
	Summaries  *summaries.Collection
	// FallbackAPIKey is used when the store holds no key.
	FallbackAPIKey string
	Logger         *slog.Logger
}

// Session is one panel's summarize/save state.
type Session struct {
	deps     Deps
	logger   *slog.Logger
	onChange func(View)

	mu          sync.Mutex
	view        View
	result      *Outcome
	summarizing bool
}

// NewSession returns an idle session. onChange, if set, receives every view
// update in order.
func NewSession(deps Deps, onChange func(View)) *Session {
	if deps.Renderer == nil {
		deps.Renderer = render.NewRenderer(deps.Logger)
	}
	if deps.Summaries == nil && deps.Store != nil {
		deps.Summaries = summaries.NewCollection(deps.Store, summaries.WithLogger(deps.Logger))
	}
	return &Session{
		deps:     deps,
		logger:   logging.NewComponentLogger(deps.Logger, "workflow"),
		onChange: onChange,
		view:     initialView(),
	}
}

// View returns the current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Result returns the last successful summarization.
func (s *Session) Result() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Outcome{}, false
	}
	return *s.result, true
}

func (s *Session) update(fn func(*View)) {
	s.mu.Lock()
	fn(&s.view)
	snapshot := s.view
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

// ResolveAPIKey returns the key stored under kvstore.KeyAPIKey, falling back to
// fallback. It returns llm.ErrMissingAPIKey when neither is set.
func ResolveAPIKey(ctx context.Context, store kvstore.Store, fallback string) (string, error) {
	if store != nil {
		values, err := store.Get(ctx, kvstore.KeyAPIKey)
		if err != nil {
			return "", err
		}
		if key, ok := values.String(kvstore.KeyAPIKey); ok && strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), nil
		}
	}
	if key := strings.TrimSpace(fallback); key != "" {
		return key, nil
	}
	return "", llm.ErrMissingAPIKey
}

// Summarize extracts the transcript from page, summarizes it, and renders the
// result into the view. The summarize control is re-enabled before returning.
func (s *Session) Summarize(ctx context.Context, page Page) (Outcome, error) {
	s.mu.Lock()
	if s.summarizing {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	s.summarizing = true
	s.result = nil
	s.mu.Unlock()

	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldSourceURL, page.URL))
	start := time.Now()

	s.update(func(v *View) {
		v.Status = StatusStarting
		v.Output = ""
		v.OutputHTML = ""
		v.Warning = ""
		v.Busy = true
		v.SummarizeEnabled = false
		v.SaveState = SaveUnavailable
		v.SavedID = ""
	})

	outcome, err := s.run(ctx, page)

	if err != nil {
		desc := Describe(err)
		s.finish(nil, func(v *View) {
			v.Status = desc.Status
			v.Output = desc.Output
			v.OutputHTML = desc.OutputHTML
			v.Busy = false
			v.SummarizeEnabled = true
		})
		logging.WarnWithContext(logger, "summarization failed", "summarize_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no summary produced"),
			logging.String(logging.FieldErrorHint, desc.Output),
		)
		return Outcome{}, err
	}

	s.finish(&outcome, func(v *View) {
		v.Status = StatusDone
		if outcome.Rendered.Warning != "" {
			v.Status = outcome.Rendered.Warning
			v.Warning = outcome.Rendered.Warning
		}
		v.Output = outcome.Markdown
		v.OutputHTML = outcome.Rendered.Markup
		v.Busy = false
		v.SummarizeEnabled = true
		v.SaveState = SaveReady
		v.SavedID = ""
	})
	logger.Info("summary generated",
		logging.Int("transcript_chars", len(outcome.Transcript)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return outcome, nil
}

// finish publishes result, applies the final view change, and releases the
// summarize guard under one lock so a following call never sees a half
// finished run.
func (s *Session) finish(result *Outcome, fn func(*View)) {
	s.mu.Lock()
	if result != nil {
		stored := *result
		s.result = &stored
	}
	fn(&s.view)
	s.summarizing = false
	snapshot := s.view
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func (s *Session) run(ctx context.Context, page Page) (Outcome, error) {
	apiKey, err := ResolveAPIKey(ctx, s.deps.Store, s.deps.FallbackAPIKey)
	if err != nil {
		return Outcome{}, err
	}

	s.update(func(v *View) { v.Status = StatusExtracting })
	text, err := s.deps.Extractor.ExtractHTML(page.HTML)
	if err != nil {
		return Outcome{}, err
	}
	s.update(func(v *View) { v.Status = StatusExtracted })

	if s.deps.Summarizer == nil {
		return Outcome{}, errors.New("no summarizer configured")
	}
	s.update(func(v *View) {
		v.Status = StatusSending
		v.Output = OutputGenerating
		v.OutputHTML = outputGeneratingHTML
	})
	markdown, err := s.deps.Summarizer.Summarize(ctx, text, apiKey)
	if err != nil {
		return Outcome{}, err
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return Outcome{}, llm.ErrEmptyCompletion
	}

	return Outcome{
		Markdown:   markdown,
		Rendered:   s.deps.Renderer.HTML(markdown),
		Transcript: text,
		URL:        page.URL,
	}, nil
}

// Save persists the current result. On success the save control becomes
// SaveDone for this result; on failure it stays ready for a retry.
func (s *Session) Save(ctx context.Context) (summaries.Record, error) {
	s.mu.Lock()
	switch {
	case s.view.SaveState == SaveInProgress:
		s.mu.Unlock()
		return summaries.Record{}, ErrBusy
	case s.view.SaveState == SaveDone:
		s.mu.Unlock()
		return summaries.Record{}, ErrAlreadySaved
	case s.result == nil || strings.TrimSpace(s.result.Markdown) == "":
		s.mu.Unlock()
		desc := Describe(summaries.ErrNothingToSave)
		s.update(func(v *View) { v.Status = desc.Status })
		return summaries.Record{}, summaries.ErrNothingToSave
	case s.deps.Summaries == nil:
		s.mu.Unlock()
		return summaries.Record{}, errors.New("no summary store configured")
	}
	result := *s.result
	s.view.Status = StatusSaving
	s.view.SaveState = SaveInProgress
	snapshot := s.view
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(snapshot)
	}

	rec, err := s.deps.Summaries.Save(ctx, result.Markdown, result.URL)
	if err != nil {
		desc := Describe(err)
		s.update(func(v *View) {
			v.Status = desc.Status
			v.SaveState = SaveReady
		})
		return summaries.Record{}, err
	}
	s.update(func(v *View) {
		v.Status = StatusSaved
		v.SaveState = SaveDone
		v.SavedID = rec.ID
	})
	return rec, nil
}
