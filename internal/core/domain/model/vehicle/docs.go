// Package vehicle holds the carrier Vehicle entity used for quote matching and
// order assignment.
package vehicle
