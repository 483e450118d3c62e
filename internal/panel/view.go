package panel

import "sync"

// View is the surface panel state is applied to. Implementations must be safe
// for use from the controller's background writer.
type View interface {
	ApplyPosition(Position)
	ApplySize(Size)
	ApplyMode(Mode)
	ApplyTheme(Theme)
	// MeasureSize returns the rendered size after layout has settled, or a
	// zero Size when it cannot be measured.
	MeasureSize() Size
}

// MemoryView records applied state. The bridge daemon mirrors the content
// script's panel with it, and tests inspect it.
type MemoryView struct {
	mu       sync.Mutex
	state    State
	measured Size
	sizeSets int
}

// NewMemoryView returns a view showing the default state.
func NewMemoryView() *MemoryView {
	return &MemoryView{state: DefaultState()}
}

func (v *MemoryView) ApplyPosition(p Position) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Position = &p
}

func (v *MemoryView) ApplySize(s Size) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Size = &s
	v.sizeSets++
}

func (v *MemoryView) ApplyMode(m Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Mode = m
}

func (v *MemoryView) ApplyTheme(t Theme) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Theme = t
}

func (v *MemoryView) MeasureSize() Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.measured
}

// SetMeasured sets what MeasureSize reports.
func (v *MemoryView) SetMeasured(s Size) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.measured = s
}

// Snapshot returns the applied state.
func (v *MemoryView) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// SizeApplications counts ApplySize calls.
func (v *MemoryView) SizeApplications() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sizeSets
}
