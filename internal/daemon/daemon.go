package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"coursesum/internal/config"
	"coursesum/internal/kvstore"
	"coursesum/internal/logging"
	"coursesum/internal/panel"
	"coursesum/internal/render"
	"coursesum/internal/summaries"
	"coursesum/internal/transcript"
	"coursesum/internal/workflow"
)

// Daemon serves the bridge API and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      kvstore.Store
	summarizer workflow.Summarizer
	collection *summaries.Collection
	renderer   *render.Renderer

	panelView *panel.MemoryView
	panel     *panel.Controller
	session   *workflow.Session

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	mu      sync.Mutex
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Bind         string
	StorePath    string
	LockFilePath string
	Model        string
}

type modelNamer interface {
	Model() string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store kvstore.Store, logger *slog.Logger, summarizer workflow.Summarizer) (*Daemon, error) {
	if cfg == nil || store == nil || summarizer == nil {
		return nil, errors.New("daemon requires config, store, and summarizer")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		summarizer: summarizer,
		collection: summaries.NewCollection(store, summaries.WithLogger(logger)),
		renderer:   render.NewRenderer(logger),
		panelView:  panel.NewMemoryView(),
		lockPath:   cfg.LockPath(),
		lock:       flock.New(cfg.LockPath()),
	}
	d.panel = panel.NewController(store, d.panelView,
		panel.WithLogger(logger),
		panel.WithDebounce(cfg.ResizeDebounce()),
		panel.WithSettleDelay(cfg.SettleDelay()),
		panel.WithDiagnostics(func(err error) {
			d.logger.Debug("panel diagnostic", logging.Error(err))
		}),
	)
	d.session = workflow.NewSession(d.sessionDeps(), func(v workflow.View) {
		d.logger.Debug("panel status", logging.String("status", v.Status))
	})

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		_ = d.panel.Close()
		return nil, err
	}
	d.api = srv
	return d, nil
}

func (d *Daemon) sessionDeps() workflow.Deps {
	return workflow.Deps{
		Store:          d.store,
		Extractor:      transcript.New(d.cfg.Extractor),
		Summarizer:     d.summarizer,
		Renderer:       d.renderer,
		Summaries:      d.collection,
		FallbackAPIKey: d.cfg.LLM.APIKey,
		Logger:         d.logger,
	}
}

// Start acquires the daemon lock, restores the panel, and starts the API server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another coursesumd instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if _, err := d.panel.Restore(d.ctx); err != nil {
		logging.WarnWithContext(d.logger, "panel restore failed", "panel_restore_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "panel starts with default layout"),
			logging.String(logging.FieldErrorHint, "check the store at "+d.cfg.StorePath()),
		)
	}
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("coursesumd started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.Addr()),
	)
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.panel.Flush()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("coursesumd stopped")
}

// Close stops the daemon, drains pending panel writes, and closes the store
// when it owns resources.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if err := d.panel.Close(); err != nil && !errors.Is(err, panel.ErrClosed) {
		errs = append(errs, err)
	}
	if closer, ok := d.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Addr returns the address the API server listens on, or the configured bind
// address before Start.
func (d *Daemon) Addr() string {
	if d.api != nil && d.api.listener != nil {
		return d.api.listener.Addr().String()
	}
	return d.cfg.Paths.APIBind
}

// Status reports daemon runtime information.
func (d *Daemon) Status(context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Bind:         d.Addr(),
		StorePath:    d.cfg.StorePath(),
		LockFilePath: d.lockPath,
		Model:        d.cfg.LLM.Model,
	}
	if named, ok := d.summarizer.(modelNamer); ok {
		status.Model = named.Model()
	}
	return status
}

// Panel returns the panel controller mirrored by the daemon.
func (d *Daemon) Panel() *panel.Controller {
	return d.panel
}

// Session returns the summarize/save session mirrored by the daemon.
func (d *Daemon) Session() *workflow.Session {
	return d.session
}
