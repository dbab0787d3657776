// Package history keeps a local SQLite record of build invocations.
//
// Every invocation, including those skipped by the staleness check, can be
// recorded as an [Entry]. Entries are listed newest first by the history
// command.
package history
