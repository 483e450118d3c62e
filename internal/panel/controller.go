package panel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"coursesum/internal/kvstore"
	"coursesum/internal/logging"
)

const (
	defaultDebounce    = 300 * time.Millisecond
	defaultSettleDelay = 16 * time.Millisecond
)

// Timer is a pending delayed call. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d.
type AfterFunc func(d time.Duration, fn func()) Timer

// DiagnosticFunc receives persistence failures and corrupt stored values.
type DiagnosticFunc func(error)

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.NewComponentLogger(logger, "panel")
	}
}

// WithDiagnostics registers the callback that receives background failures.
func WithDiagnostics(fn DiagnosticFunc) Option {
	return func(c *Controller) {
		c.diag = fn
	}
}

// WithDebounce overrides the resize debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithSettleDelay overrides the wait between the debounce firing and the
// size measurement.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settle = d
		}
	}
}

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.after = fn
		}
	}
}

// Controller restores and persists panel layout.
type Controller struct {
	store    kvstore.Store
	view     View
	logger   *slog.Logger
	diag     DiagnosticFunc
	debounce time.Duration
	settle   time.Duration
	after    AfterFunc

	mu         sync.Mutex
	state      State
	lastSize   *Size
	pending    Timer
	generation uint64
	resizing   bool

	qmu    sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewController starts the background writer. Call Close to drain it.
func NewController(store kvstore.Store, view View, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		view:     view,
		logger:   logging.NewComponentLogger(nil, "panel"),
		debounce: defaultDebounce,
		settle:   defaultSettleDelay,
		after: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
		state: DefaultState(),
		done:  make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.qmu)
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

// State returns a copy of the current panel state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Restore loads position, size, mode, and theme in one read and applies them.
// Position and theme are always applied; size only when not minimized. Corrupt
// values fall back to defaults and are reported as diagnostics. A failed read
// applies the defaults and is returned.
func (c *Controller) Restore(ctx context.Context) (State, error) {
	values, err := c.store.Get(ctx,
		kvstore.KeyWindowPos,
		kvstore.KeyWindowSize,
		kvstore.KeyWindowState,
		kvstore.KeyTheme,
	)
	if err != nil {
		c.report("restore", "", err)
		values = kvstore.Values{}
	}

	restored := DefaultState()
	var pos Position
	if c.decode(values, kvstore.KeyWindowPos, &pos) {
		if pos.Complete() {
			restored.Position = &pos
		} else {
			c.corrupt(kvstore.KeyWindowPos, values[kvstore.KeyWindowPos], errors.New("missing top or left"))
		}
	}
	var size Size
	if c.decode(values, kvstore.KeyWindowSize, &size) {
		if size.Complete() {
			restored.Size = &size
		} else {
			c.corrupt(kvstore.KeyWindowSize, values[kvstore.KeyWindowSize], errors.New("missing width or height"))
		}
	}
	var mode Mode
	if c.decode(values, kvstore.KeyWindowState, &mode) {
		if mode.Valid() {
			restored.Mode = mode
		} else {
			c.corrupt(kvstore.KeyWindowState, values[kvstore.KeyWindowState], nil)
		}
	}
	var theme Theme
	if c.decode(values, kvstore.KeyTheme, &theme) {
		if theme.Valid() {
			restored.Theme = theme
		} else {
			c.corrupt(kvstore.KeyTheme, values[kvstore.KeyTheme], nil)
		}
	}

	c.mu.Lock()
	c.cancelResizeLocked()
	c.state = restored
	c.lastSize = nil
	c.mu.Unlock()

	if restored.Position != nil {
		c.view.ApplyPosition(*restored.Position)
	}
	c.view.ApplyTheme(restored.Theme)
	c.view.ApplyMode(restored.Mode)
	if restored.Size != nil && !restored.Minimized() {
		c.view.ApplySize(*restored.Size)
	}

	c.logger.Debug("panel state restored",
		logging.String("theme", string(restored.Theme)),
		logging.String("mode", string(restored.Mode)),
	)
	return restored.clone(), err
}

// DragEnd records the final drag position and persists it immediately.
func (c *Controller) DragEnd(pos Position) {
	c.mu.Lock()
	c.state.Position = &pos
	c.mu.Unlock()

	c.view.ApplyPosition(pos)
	c.enqueueSet("drag", kvstore.KeyWindowPos, pos)
}

// ResizeSettle schedules a debounced size write. Each call replaces the
// pending one. Calls while minimized are ignored.
func (c *Controller) ResizeSettle(size Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Minimized() {
		return
	}
	c.cancelResizeLocked()
	reported := size
	c.lastSize = &reported
	c.resizing = true
	gen := c.generation
	c.pending = c.after(c.debounce, func() { c.settleResize(gen) })
}

func (c *Controller) settleResize(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.resizing {
		c.mu.Unlock()
		return
	}
	if c.settle > 0 {
		c.pending = c.after(c.settle, func() { c.commitResize(gen) })
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.commitResize(gen)
}

func (c *Controller) commitResize(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.resizing || c.state.Minimized() {
		c.mu.Unlock()
		return
	}
	size, ok := c.measureLocked()
	c.resizing = false
	c.pending = nil
	if !ok {
		c.mu.Unlock()
		return
	}
	c.state.Size = &size
	c.mu.Unlock()

	c.enqueueSet("resize", kvstore.KeyWindowSize, size)
}

// measureLocked reads the settled size from the view, falling back to the
// last reported size.
func (c *Controller) measureLocked() (Size, bool) {
	if measured := c.view.MeasureSize(); measured.Complete() {
		return measured, true
	}
	if c.lastSize != nil && c.lastSize.Complete() {
		return *c.lastSize, true
	}
	return Size{}, false
}

func (c *Controller) cancelResizeLocked() {
	c.generation++
	c.resizing = false
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// ToggleMinimize flips the mode and persists it. Maximizing re-reads the
// saved size and applies it.
func (c *Controller) ToggleMinimize(ctx context.Context) Mode {
	c.mu.Lock()
	mode := c.state.Mode.Toggle()
	c.mu.Unlock()
	c.setMode(ctx, mode)
	return mode
}

// SetMode applies and persists mode. Setting the current mode rewrites it.
func (c *Controller) SetMode(ctx context.Context, mode Mode) {
	c.setMode(ctx, mode)
}

func (c *Controller) setMode(ctx context.Context, mode Mode) {
	c.mu.Lock()
	c.state.Mode = mode
	if mode == ModeMinimized {
		c.cancelResizeLocked()
	}
	c.mu.Unlock()

	c.view.ApplyMode(mode)
	c.enqueueSet("mode", kvstore.KeyWindowState, mode)
	if mode == ModeMaximized {
		c.enqueue(func() { c.reapplySavedSize(ctx) })
	}
}

func (c *Controller) reapplySavedSize(ctx context.Context) {
	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}
	values, err := c.store.Get(ctx, kvstore.KeyWindowSize)
	if err != nil {
		c.report("reapply size", kvstore.KeyWindowSize, err)
		return
	}
	var size Size
	if !c.decode(values, kvstore.KeyWindowSize, &size) || !size.Complete() {
		return
	}

	c.mu.Lock()
	if c.state.Minimized() {
		c.mu.Unlock()
		return
	}
	c.state.Size = &size
	c.mu.Unlock()
	c.view.ApplySize(size)
}

// ToggleTheme flips the theme and persists it.
func (c *Controller) ToggleTheme() Theme {
	c.mu.Lock()
	theme := c.state.Theme.Toggle()
	c.mu.Unlock()
	c.SetTheme(theme)
	return theme
}

// SetTheme applies and persists theme.
func (c *Controller) SetTheme(theme Theme) {
	c.mu.Lock()
	c.state.Theme = theme
	c.mu.Unlock()

	c.view.ApplyTheme(theme)
	c.enqueueSet("theme", kvstore.KeyTheme, theme)
}

// Flush blocks until every write queued so far has completed.
func (c *Controller) Flush() {
	barrier := make(chan struct{})
	if !c.enqueue(func() { close(barrier) }) {
		return
	}
	<-barrier
}

// Close commits any pending resize, drains queued writes, and stops the
// writer. Later interactions are reported as ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	var pendingSize *Size
	if c.resizing && !c.state.Minimized() {
		if size, ok := c.measureLocked(); ok {
			c.state.Size = &size
			pendingSize = &size
		}
	}
	c.cancelResizeLocked()
	c.mu.Unlock()
	if pendingSize != nil {
		c.enqueueSet("resize", kvstore.KeyWindowSize, *pendingSize)
	}

	c.qmu.Lock()
	if c.closed {
		c.qmu.Unlock()
		<-c.done
		return nil
	}
	c.closed = true
	c.cond.Broadcast()
	c.qmu.Unlock()
	<-c.done
	return nil
}

func (c *Controller) enqueueSet(op, key string, value any) {
	c.enqueue(func() {
		if err := c.store.Set(context.Background(), map[string]any{key: value}); err != nil {
			c.report(op, key, err)
		}
	})
}

func (c *Controller) enqueue(fn func()) bool {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	if c.closed {
		go c.report("enqueue", "", ErrClosed)
		return false
	}
	c.queue = append(c.queue, fn)
	c.cond.Signal()
	return true
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		c.qmu.Lock()
		for len(c.queue) == 0 && !c.closed {
			c.cond.Wait()
		}
		if len(c.queue) == 0 {
			c.qmu.Unlock()
			return
		}
		fn := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.qmu.Unlock()
		fn()
	}
}

func (c *Controller) decode(values kvstore.Values, key string, target any) bool {
	found, err := values.Decode(key, target)
	if !found {
		return false
	}
	if err != nil {
		c.corrupt(key, values[key], err)
		return false
	}
	return true
}

func (c *Controller) corrupt(key string, raw json.RawMessage, err error) {
	cerr := &CorruptValueError{Key: key, Raw: string(raw), Err: err}
	logging.WarnWithContext(c.logger, "stored panel value ignored", "panel_value_corrupt",
		logging.String("key", key),
		logging.Error(cerr),
		logging.String(logging.FieldImpact, "default layout used for this field"),
		logging.String(logging.FieldErrorHint, "move, resize, or toggle the panel to overwrite it"),
	)
	if c.diag != nil {
		c.diag(cerr)
	}
}

func (c *Controller) report(op, key string, err error) {
	perr := &PersistError{Op: op, Key: key, Err: err}
	logging.WarnWithContext(c.logger, "panel state persistence failed", "panel_persist_failed",
		logging.String("op", op),
		logging.String("key", key),
		logging.Error(err),
		logging.String(logging.FieldImpact, "panel layout may not survive a reload"),
		logging.String(logging.FieldErrorHint, "check the data directory is writable"),
	)
	if c.diag != nil {
		c.diag(perr)
	}
}
