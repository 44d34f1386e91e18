// Package async provides settle-once futures for operations that only report an error.
//
// # Core Types
//
// ExecFuture is the result of an asynchronous computation. It is settled exactly
// once: by the function started with Exec, or explicitly with Resolve or Reject.
// Later settle calls are ignored and report false.
//
// # Usage
//
// Running a function asynchronously:
//
//	future := async.Exec(ctx, userID, func(ctx context.Context, id int) error {
//		return deleteUser(ctx, id)
//	})
//
//	if err := future.Await(); err != nil {
//		log.Fatal(err)
//	}
//
// Settling a future from another goroutine, for example a queue worker:
//
//	f := async.NewExecFuture()
//	jobs <- job{future: f}
//	return f
//
//	// worker
//	if err := run(j); err != nil {
//		j.future.Reject(err)
//		continue
//	}
//	j.future.Resolve()
//
// Settled returns a future that is already complete, which is handy for
// rejecting a request before any work is scheduled.
//
// Waiting with a bound:
//
//	err := future.AwaitWithTimeout(50 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("operation timed out")
//	}
//
// AwaitContext gives up when ctx is done. Neither form cancels the computation.
//
// # Coordination Utilities
//
// ExecAll waits for every future in order and returns the first error it sees.
// ExecAny returns the index and error of the first future to settle.
//
// # Error Handling
//
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when ExecAny is called with no futures
//
// # Context Support
//
// If the context passed to Exec is already canceled the function is not called
// and the future settles with the context's error.
package async
