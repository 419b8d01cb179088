// Package jobs provides scheduled background tasks for the freight marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. QuoteExpiryJob - marks overdue BROUILLON and ENVOYE quotes EXPIRE
//
// Quote expiry is enforced when quotes are read or accepted, so the sweep is
// not needed for correctness; it keeps the stored status in line with the
// computed one for listings and reporting.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(&expireQuotesHandler, config.QuoteExpirySchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules have six fields, seconds first. The default "0 */5 * * * *" runs
// every five minutes. A run that is still going when the next tick fires
// causes that tick to be skipped.
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. A failed job start
// stops jobs that already started.
package jobs
