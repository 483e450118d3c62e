// Package summaries manages the saved-summaries collection.
//
// Records live as one JSON array under kvstore.KeySavedSummaries, in the
// shape {id, timestamp, url, summary} with timestamp in Unix milliseconds.
// Every mutation is a read-modify-write of that array. Two writers saving at
// the same moment can lose one update; the store is the only arbiter.
package summaries
