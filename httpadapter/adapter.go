// Package httpadapter translates taxonomy failures into HTTP responses.
//
// The adapter owns the kind to status mapping; the failure package itself
// knows nothing about transports.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/next-trace/scg-failure/failure"
	"github.com/next-trace/scg-failure/metrics"
)

// DefaultStatuses is the stock kind to status mapping.
var DefaultStatuses = map[failure.Kind]int{
	failure.BadRequest:      http.StatusBadRequest,
	failure.InvalidInput:    http.StatusUnprocessableEntity,
	failure.NotFound:        http.StatusNotFound,
	failure.EventProcessing: http.StatusInternalServerError,
}

// ErrorInfo is the JSON body written for every failure.
type ErrorInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Kind      string    `json:"kind,omitempty"`
	Message   string    `json:"message"`
}

// Adapter handles status code determination and error presentation.
type Adapter struct {
	logger   *slog.Logger
	statuses map[failure.Kind]int
	recorder *metrics.Recorder
	now      func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the slog logger. nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithStatus overrides the status used for one kind.
func WithStatus(k failure.Kind, status int) Option {
	return func(a *Adapter) { a.statuses[k] = status }
}

// WithStatuses overrides several kinds at once.
func WithStatuses(m map[failure.Kind]int) Option {
	return func(a *Adapter) { maps.Copy(a.statuses, m) }
}

// WithRecorder counts every written failure.
func WithRecorder(r *metrics.Recorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// New creates an adapter using DefaultStatuses unless overridden.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		logger:   slog.Default(),
		statuses: maps.Clone(DefaultStatuses),
		now:      time.Now,
	}
	for _, o := range opts {
		o(a)
	}

	return a
}

// StatusCodeFor determines the HTTP status for err from its kind.
// nil maps to 200 and unclassified errors to 500.
func (a *Adapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if k, ok := failure.KindOf(err); ok {
		if status, ok := a.statuses[k]; ok {
			return status
		}
	}

	return http.StatusInternalServerError
}

// FormatError builds the response body. Only the failure's own message is
// exposed; causes and unclassified error text stay in the logs.
func (a *Adapter) FormatError(r *http.Request, err error) ErrorInfo {
	status := a.StatusCodeFor(err)
	info := ErrorInfo{
		Timestamp: a.now().UTC(),
		Path:      r.URL.Path,
		Status:    status,
		Error:     http.StatusText(status),
		Message:   http.StatusText(status),
	}

	if f, ok := failure.As(err); ok {
		info.Kind = f.Code()
		if f.HasMessage() && f.Message() != "" {
			info.Message = f.Message()
		}
	}

	return info
}

// WriteError writes a JSON error response and logs it: Warn for 4xx,
// Error for everything else.
func (a *Adapter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	info := a.FormatError(r, err)

	a.recorder.Observe(metrics.TransportHTTP, err)

	lvl := slog.LevelError
	if info.Status >= 400 && info.Status < 500 {
		lvl = slog.LevelWarn
	}

	a.logger.Log(r.Context(), lvl, "request failed",
		"kind", metrics.Label(err),
		"status", info.Status,
		"method", r.Method,
		"path", info.Path,
		"error", err.Error(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(info.Status)

	if werr := json.NewEncoder(w).Encode(info); werr != nil {
		a.logger.Warn("write error response", "path", info.Path, "error", werr)
	}
}
