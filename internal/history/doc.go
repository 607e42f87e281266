// Package history persists typed input lines and their outcomes in SQLite.
//
// Only the command line the user typed is stored, never post content returned
// by the server. A nil *Store is valid and turns every operation into a no-op
// so callers do not need to branch on history.enabled.
package history
