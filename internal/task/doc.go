// Package task converges a submitted background task to a terminal state.
//
// # Overview
//
// The darkroom service extracts uploaded archives asynchronously and exposes
// progress through a status endpoint. This package owns the polling loop that
// watches one task: check the status, emit the snapshot for display, repeat on
// a fixed cadence until the task reports SUCCESS or FAILURE.
//
// # Polling Behavior
//
// Poll checks the status immediately, then once per interval. Every snapshot
// the service returns is emitted, including non-terminal ones, so callers can
// render progress and messages while waiting.
//
// Three things end a loop:
//
//   - A terminal status (SUCCESS or FAILURE): the snapshot is emitted and the
//     channel closes.
//   - A failed status check: a *PollError snapshot is emitted and the channel
//     closes. The loop never retries past a fetch failure on its own.
//   - An exhausted attempt budget: a *PollTimeout snapshot is emitted and the
//     channel closes.
//
// # Cancellation
//
// Cancelling the context stops the loop between ticks and mid-request, and
// the channel closes without further emissions. Callers that supersede an
// upload cancel the old loop's context; a late response from the old task can
// then never reach shared state.
package task
