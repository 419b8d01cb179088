// Package queries contains read-only operations. Each query is a validated
// value built by its constructor plus a handler that projects current state;
// nothing here changes stored data.
package queries
