// Package scheduler runs named cycles on independent recurring timers.
//
// Every cycle owns a ticker from an injected clock (k8s.io/utils/clock), so tests
// drive time with a fake clock instead of sleeping. Runs are dispatched on their own
// goroutine and never delay a ticker; a tick that arrives while the previous run of
// the same cycle is in progress is skipped and counted.
//
// Errors returned by a run are logged and counted. A panic is handed to the
// PanicHandler, which by default re-panics and terminates the process.
//
// # Usage
//
//	s := scheduler.New([]scheduler.Cycle{
//	    {Name: "full", Interval: 90 * time.Minute, RunOnStart: true, Run: syncer.FullSync},
//	}, scheduler.WithLogger(log))
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//	defer s.Stop()
package scheduler
