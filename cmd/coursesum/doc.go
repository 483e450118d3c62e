// Command coursesum summarizes lecture transcripts and manages the local
// state the in-page panel uses: saved summaries, panel layout, and the
// OpenRouter API key.
//
// Commands read and write the same SQLite key-value store as coursesumd, so
// the daemon does not need to be running.
package main
