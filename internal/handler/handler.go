// Package handler implements the hello Lambda request handler.
//
// Handle is total: every invocation, including a null or malformed event,
// ends in a well-formed Response. Faults become a 500 response and an ERROR
// log entry; no error is ever returned to the Lambda runtime.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	gojson "github.com/goccy/go-json"

	"github.com/balaaddepalli/awsstacks/internal/config"
	"github.com/balaaddepalli/awsstacks/internal/logger"
)

const (
	msgStarted   = "Lambda invocation started"
	msgCompleted = "Lambda invocation completed successfully"
	msgFailed    = "Lambda invocation failed"

	internalServerError = "Internal Server Error"
)

// Level is the severity passed to Logger.
type Level = logger.Level

// Logger receives the handler's structured log entries.
type Logger interface {
	Log(level Level, requestID, message string, details map[string]any)
}

// Response is the API Gateway proxy response.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type successBody struct {
	Message        string `json:"message"`
	RequestID      string `json:"requestId"`
	Timestamp      string `json:"timestamp"`
	ProcessingTime int64  `json:"processingTime"`
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

// Handler answers every invocation with a fixed greeting.
type Handler struct {
	log      Logger
	now      func() time.Time
	greeting string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the log sink. The default discards entries.
func WithLogger(l Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

// WithClock sets the time source used for timestamps and processing time.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithGreeting replaces the success message.
func WithGreeting(message string) Option {
	return func(h *Handler) {
		if message != "" {
			h.greeting = message
		}
	}
}

// New creates a Handler.
func New(opts ...Option) *Handler {
	h := &Handler{
		log:      nopLogger{},
		now:      time.Now,
		greeting: config.DefaultGreeting,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes one invocation. The returned error is always nil.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (resp Response, _ error) {
	requestID := contextRequestID(ctx)

	defer func() {
		if r := recover(); r != nil {
			resp = h.fail(requestID, fmt.Errorf("panic: %v", r), string(debug.Stack()))
		}
	}()

	resp, err := h.handle(ctx, event, &requestID)
	if err != nil {
		return h.fail(requestID, err, ""), nil
	}
	return resp, nil
}

// handle runs the success path. requestID is updated as soon as the event
// identifier is resolved so a later fault is tagged with it.
func (h *Handler) handle(ctx context.Context, raw json.RawMessage, requestID *string) (Response, error) {
	ev := parseEvent(raw)
	if ev.RequestID != "" {
		*requestID = ev.RequestID
	}
	id := *requestID

	h.log.Log(logger.Info, id, msgStarted, ev.details(ctx))

	start := h.now()

	timestamp := h.now().UTC()
	elapsed := timestamp.Sub(start).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	body, err := gojson.Marshal(successBody{
		Message:        h.greeting,
		RequestID:      id,
		Timestamp:      timestamp.Format(logger.TimeFormat),
		ProcessingTime: elapsed,
	})
	if err != nil {
		return Response{}, fmt.Errorf("encoding response body: %w", err)
	}

	resp := Response{
		StatusCode: http.StatusOK,
		Headers:    headers(id),
		Body:       string(body),
	}

	h.log.Log(logger.Info, id, msgCompleted, map[string]any{
		"statusCode":     resp.StatusCode,
		"processingTime": elapsed,
	})

	return resp, nil
}

// fail logs the fault and builds the 500 response. It must not panic: a
// panicking logger is ignored.
func (h *Handler) fail(requestID string, err error, stack string) Response {
	if err == nil {
		err = errors.New("unknown error")
	}
	details := map[string]any{"error": err.Error()}
	if stack != "" {
		details["stack"] = stack
	}

	func() {
		defer func() { _ = recover() }()
		h.log.Log(logger.Error, requestID, msgFailed, details)
	}()

	body, marshalErr := gojson.Marshal(errorBody{Error: internalServerError, RequestID: requestID})
	if marshalErr != nil {
		body = []byte(`{"error":"` + internalServerError + `"}`)
	}

	return Response{
		StatusCode: http.StatusInternalServerError,
		Headers:    headers(requestID),
		Body:       string(body),
	}
}

func headers(requestID string) map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"X-Request-ID": requestID,
	}
}

// contextRequestID returns the platform request ID, or UnknownRequestID
// when no Lambda context is attached.
func contextRequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return logger.UnknownRequestID
}

type nopLogger struct{}

func (nopLogger) Log(Level, string, string, map[string]any) {}
