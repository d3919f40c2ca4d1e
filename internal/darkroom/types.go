package darkroom

import "io"

// TaskStatus enumerates the lifecycle states the service reports for a
// background task.
type TaskStatus string

const (
	StatusPending TaskStatus = "PENDING"
	StatusRunning TaskStatus = "RUNNING"
	StatusSuccess TaskStatus = "SUCCESS"
	StatusFailure TaskStatus = "FAILURE"
)

// Terminal reports whether the status ends a task's lifecycle. Polling stops
// on the first terminal status.
func (s TaskStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// Dataset is a named, server-owned collection of photos.
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Photo describes one image inside a dataset.
type Photo struct {
	ID        string `json:"id"`
	DatasetID string `json:"dataset_id"`
	Filename  string `json:"filename"`
	Path      string `json:"path,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	MIMEType  string `json:"mime_type,omitempty"`
}

// Task mirrors the payload returned by /api/v1/tasks/{id}/status.
// DatasetID is populated by the service once extraction succeeds.
type Task struct {
	ID        string     `json:"id"`
	Name      string     `json:"task_name,omitempty"`
	Status    TaskStatus `json:"status"`
	Progress  int        `json:"progress"`
	Message   string     `json:"message,omitempty"`
	DatasetID string     `json:"dataset_id,omitempty"`
}

// TaskHandle is the accepted-upload response from POST /api/v1/datasets/.
type TaskHandle struct {
	TaskID string `json:"task_id"`
}

// UploadRequest carries one archive submission. Filename is the client-side
// name of the archive; Name is the dataset name the server should record.
type UploadRequest struct {
	Name     string
	Filename string
	File     io.Reader
}
