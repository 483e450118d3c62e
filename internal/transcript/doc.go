// Package transcript pulls the visible transcript text out of a video-course
// page.
//
// The page contract is one container element holding phrase elements, both
// located by CSS selector. Phrases are read in document order, reduced to their
// rendered text, trimmed, and joined with single spaces. Each way extraction can
// fail maps to its own sentinel so callers can tell a closed transcript panel
// from an empty transcript from a selector bug.
package transcript
