// Command cadence enriches a music catalog with features extracted from local
// audio files.
//
// The process subcommand walks a JSON catalog, matches each title to a file in
// the music directory, measures duration, tempo, and pitch-class energy, and
// writes the successful entries as JSON or SQLite. match and analyze expose
// the two halves of that pipeline for a single title or file.
package main
