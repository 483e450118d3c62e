// Package panel owns the floating summarizer panel's persisted layout: its
// position, size, minimized/maximized mode, and theme.
//
// A Controller restores State from the key-value store in one batched read,
// applies it to a View, and persists every user interaction. Writes never block
// the caller: they are queued to a single background writer that preserves
// submission order and reports failures through a diagnostic callback. Resize
// events are debounced behind one pending timer token, and the size is never
// applied or persisted while the panel is minimized.
package panel
