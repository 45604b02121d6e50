// Package database provides SQLite-based storage of extraction history.
//
// Every inspected file can be recorded together with its content hash, the
// decoded report and a summary of its privacy findings. The history answers
// questions such as "what did this file contain last week" and "where else
// have I seen this exact file".
//
// Design decision: SQLite (via modernc.org/sqlite) keeps the whole history in
// a single file under the XDG data directory and needs no CGO, so the binary
// still cross-compiles.
package database
