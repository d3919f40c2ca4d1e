package darkroom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// API defines the surface of the darkroom service the client consumes.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListDatasets(ctx context.Context) ([]Dataset, error)
	ListPhotos(ctx context.Context, datasetID string) ([]Photo, error)
	SubmitUpload(ctx context.Context, req UploadRequest) (TaskHandle, error)
	TaskStatus(ctx context.Context, taskID string) (Task, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the darkroom HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
}

const (
	defaultAPIBase   = "127.0.0.1:8000"
	defaultUserAgent = "gallerist/0.1"
	requestTimeout   = 15 * time.Second
	maxErrorBody     = 4 << 10

	// Status polls run on a 2s cadence per upload; 10 req/s leaves room for
	// list refreshes without letting a bug hammer the service.
	requestsPerSecond = 10
)

// NewClient builds a Client using the provided host:port or URL value.
func NewClient(apiBase string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// ListDatasets retrieves all datasets in server order.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Dataset
	if err := c.get(ctx, "/api/v1/datasets/", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListPhotos retrieves the photos belonging to one dataset.
// Returns ErrNotFound when the dataset is unknown.
func (c *Client) ListPhotos(ctx context.Context, datasetID string) ([]Photo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(datasetID) == "" {
		return nil, &ValidationError{Reason: "dataset id required"}
	}
	path := fmt.Sprintf("/api/v1/datasets/%s/images/", datasetID)
	var payload []Photo
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SubmitUpload posts an archive as multipart form data and returns a handle
// for the extraction task the server enqueues.
func (c *Client) SubmitUpload(ctx context.Context, req UploadRequest) (TaskHandle, error) {
	if c == nil {
		return TaskHandle{}, fmt.Errorf("client is nil")
	}
	if req.File == nil {
		return TaskHandle{}, &ValidationError{Reason: "no file provided"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return TaskHandle{}, &ValidationError{Reason: "dataset name required"}
	}
	filename := req.Filename
	if strings.TrimSpace(filename) == "" {
		filename = "upload.zip"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return TaskHandle{}, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return TaskHandle{}, fmt.Errorf("read upload: %w", err)
	}
	if err := form.WriteField("name", req.Name); err != nil {
		return TaskHandle{}, fmt.Errorf("build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return TaskHandle{}, fmt.Errorf("build form: %w", err)
	}

	rel := &url.URL{Path: "/api/v1/datasets/"}
	var handle TaskHandle
	if err := c.doURL(ctx, http.MethodPost, rel, &body, form.FormDataContentType(), &handle); err != nil {
		return TaskHandle{}, err
	}
	if handle.TaskID == "" {
		return TaskHandle{}, fmt.Errorf("upload accepted without task id")
	}
	return handle, nil
}

// TaskStatus retrieves the current snapshot of a background task.
// Returns ErrNotFound when the task is unknown or has expired.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (Task, error) {
	if c == nil {
		return Task{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(taskID) == "" {
		return Task{}, &ValidationError{Reason: "task id required"}
	}
	path := fmt.Sprintf("/api/v1/tasks/%s/status", taskID)
	var payload Task
	if err := c.get(ctx, path, &payload); err != nil {
		return Task{}, err
	}
	if payload.ID == "" {
		payload.ID = taskID
	}
	return payload, nil
}

// PhotoFileURL returns the absolute URL serving a photo's raw bytes. The URL
// is handed to the system browser rather than fetched through the client.
func (c *Client) PhotoFileURL(photoID string) string {
	// Path holds the decoded form; URL.String escapes it on the way out.
	rel := &url.URL{Path: fmt.Sprintf("/api/v1/images/%s/file", photoID)}
	return c.baseURL.ResolveReference(rel).String()
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, http.MethodGet, rel, nil, "", dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServerError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
