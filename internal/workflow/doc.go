// Package workflow runs the summarize and save actions of one panel session.
//
// A Session owns the user-visible View (status line, output area, control
// states) and the transient summarization result. Summarize disables its
// control before any work starts and re-enables it only after rendering has
// finished, on success and failure alike. A second Summarize while one is in
// flight returns ErrBusy without touching the view; in-flight requests are not
// cancelled. Every failure leaves an explanation in both the status line and
// the output area (see Describe).
package workflow
