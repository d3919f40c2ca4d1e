// Package darkroom provides an HTTP client for the darkroom dataset service.
//
// # Overview
//
// This package defines the API client for communicating with the darkroom
// image-dataset service. It handles HTTP communication, JSON serialization,
// and type-safe representation of datasets, photos, and background tasks.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the darkroom API schema
//   - errors.go: The error taxonomy callers branch on
//
// # Client Usage
//
// Create a client using the API base address from configuration:
//
//	client, err := darkroom.NewClient("127.0.0.1:8000")
//	if err != nil {
//		log.Fatal("failed to create client", "err", err)
//	}
//
//	datasets, err := client.ListDatasets(ctx)
//	photos, err := client.ListPhotos(ctx, datasets[0].ID)
//	handle, err := client.SubmitUpload(ctx, darkroom.UploadRequest{...})
//	task, err := client.TaskStatus(ctx, handle.TaskID)
//
// # API Endpoints
//
//   - GET  /api/v1/datasets/: all datasets in server order
//   - GET  /api/v1/datasets/{id}/images/: photos of one dataset (404 when unknown)
//   - POST /api/v1/datasets/: multipart archive upload, 202 + {task_id}
//   - GET  /api/v1/tasks/{id}/status: background task snapshot
//   - GET  /api/v1/images/{id}/file: raw image bytes (URL built by PhotoFileURL)
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Pass through a client-side rate limiter before reaching the wire
//   - Carry Accept, User-Agent, and a fresh X-Request-ID header
//   - Return errors from the taxonomy in errors.go; expected failure modes
//     never surface as bare decode or transport errors
//
// # Error Handling
//
// Callers branch with errors.Is / errors.As:
//
//   - *NetworkError: transport failure, no HTTP status produced
//   - *ServerError: non-2xx response, carries status and truncated body
//   - *ValidationError: bad input caught client-side before the wire
//   - ErrNotFound: 404 from the service (unknown dataset or expired task)
//
// The client performs no retries; retry policy belongs to callers.
package darkroom
