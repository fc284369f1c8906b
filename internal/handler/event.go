package handler

import (
	"context"
	"encoding/json"
	"time"

	gojson "github.com/goccy/go-json"
)

// invocationEvent is the part of an API Gateway proxy event the handler
// reads. Every field is optional.
type invocationEvent struct {
	HTTPMethod string
	Path       string
	UserAgent  string
	RequestID  string
}

// parseEvent extracts the known fields from raw, ignoring anything that is
// missing or has an unexpected type. A null, empty or non-object payload
// yields the zero value.
func parseEvent(raw json.RawMessage) invocationEvent {
	var ev invocationEvent
	if len(raw) == 0 {
		return ev
	}

	var doc map[string]any
	if err := gojson.Unmarshal(raw, &doc); err != nil || doc == nil {
		return ev
	}

	ev.HTTPMethod = stringField(doc, "httpMethod")
	ev.Path = stringField(doc, "path")

	if headers, ok := doc["headers"].(map[string]any); ok {
		ev.UserAgent = stringField(headers, "User-Agent")
		if ev.UserAgent == "" {
			ev.UserAgent = stringField(headers, "user-agent")
		}
	}

	if rc, ok := doc["requestContext"].(map[string]any); ok {
		ev.RequestID = stringField(rc, "requestId")
	}

	return ev
}

// details returns the start entry details: only fields that are present.
func (ev invocationEvent) details(ctx context.Context) map[string]any {
	d := make(map[string]any, 4)
	if ev.HTTPMethod != "" {
		d["httpMethod"] = ev.HTTPMethod
	}
	if ev.Path != "" {
		d["path"] = ev.Path
	}
	if ev.UserAgent != "" {
		d["userAgent"] = ev.UserAgent
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
		d["remainingTimeMs"] = remaining
	}
	return d
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
