// Package upload orchestrates the archive upload workflow.
//
// # Overview
//
// An upload is the one multi-step write path in the client:
//
//  1. Snapshot the current dataset ids for later diffing.
//  2. Submit the archive (multipart POST); validation and server errors fail
//     the cycle before any polling starts.
//  3. Poll the extraction task to a terminal snapshot, surfacing progress.
//  4. On SUCCESS, re-fetch the dataset list.
//  5. Identify the newly created dataset: the terminal snapshot's dataset id
//     when present, else an unambiguous set difference against the pre-upload
//     snapshot, else the last entry of the refreshed list.
//  6. Select it, load its photos, and mark the upload succeeded.
//
// Task FAILURE (the service rejecting the archive) and poll-mechanism
// failures (PollError, PollTimeout) are distinct causes but surface
// identically: a single UploadFailed transition that closes the modal and
// records the error. The UI can never observe a half-finished upload state.
//
// # Supersession
//
// Only one cycle may be active. Starting a new Run cancels the previous
// cycle's poll loop and bumps a generation counter; a superseded cycle is
// checked against that counter before every store transition, so a late
// status response from an abandoned upload cannot corrupt the state the new
// cycle is building. Cancel() does the same on teardown.
package upload
