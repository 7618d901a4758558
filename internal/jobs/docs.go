// Package jobs provides scheduled background tasks for the order lifecycle service.
// Jobs run on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OrderPollingJob - re-reads the order store at a fixed interval and installs the result
// as the staff list, so changes made by other operators or processes show up.
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(pollingJob, cfg.PollInterval, true, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
//	// Staff can pause polling from the UI.
//	_ = jobManager.SetPollingEnabled(false)
//
// # Scheduling
//
// Polling uses a constant-interval schedule rather than a cron expression, so intervals
// below one second work.
//
// # Coalescing
//
// A refresh triggered while another is in flight, by a tick or by RefreshNow, joins the
// running fetch instead of starting a second one.
//
// # Error Handling
//
// Fetch failures are logged as warnings and counted; the next tick retries. Panics inside a
// tick are recovered by the cron chain.
package jobs
