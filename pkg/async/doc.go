// Package async provides Future-based helpers for running independent
// operations concurrently and joining on all of their outcomes.
//
// Run starts a function in its own goroutine and returns a Future; SettleAll
// waits for every future and collects both successes and failures without
// short-circuiting. Panics inside a task are recovered into errors, which
// makes the helpers safe for fan-out over untrusted per-item work.
//
//	futures := make([]*async.Future[int], len(items))
//	for i, item := range items {
//	    futures[i] = async.Run(ctx, item, process)
//	}
//	for _, outcome := range async.SettleAll(futures...) {
//	    if outcome.Err != nil {
//	        // record failure, keep going
//	    }
//	}
package async
