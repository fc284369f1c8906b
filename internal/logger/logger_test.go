package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_EntryShape(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info").WithClock(func() time.Time { return fixedTime })

	l.Log(Info, "abc-1", "Lambda invocation started", map[string]any{"httpMethod": "GET"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{
		"timestamp": "2024-05-01T10:00:00.123Z",
		"requestId": "abc-1",
		"level":     "INFO",
		"message":   "Lambda invocation started",
		"details":   map[string]any{"httpMethod": "GET"},
	}, entries[0])
}

func TestLogger_OmitsEmptyDetails(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info").Log(Warn, "id", "careful", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "details")
	assert.Equal(t, "WARN", entries[0]["level"])
}

func TestLogger_UnknownRequestID(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info").Log(Info, "", "no context", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, UnknownRequestID, entries[0]["requestId"])
}

func TestLogger_Threshold(t *testing.T) {
	tests := []struct {
		threshold string
		expected  []string
	}{
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
		{"debug", []string{"INFO", "WARN", "ERROR"}},
		{"not-a-level", []string{"INFO", "WARN", "ERROR"}},
		{"", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.threshold, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.threshold)
			l.Log(Info, "id", "i", nil)
			l.Log(Warn, "id", "w", nil)
			l.Log(Error, "id", "e", nil)

			var levels []string
			for _, entry := range decodeLines(t, &buf) {
				levels = append(levels, entry["level"].(string))
			}
			assert.Equal(t, tt.expected, levels)
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func TestLogger_ConcurrentWritesStayWholeLines(t *testing.T) {
	var out syncBuffer
	l := New(&out, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Log(Info, "id", "concurrent", map[string]any{"n": 1})
		}()
	}
	wg.Wait()

	entries := decodeLines(t, &out.buf)
	assert.Len(t, entries, 20)
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	w := ConsoleWriter(&buf)
	w.NoColor = true
	l := New(w, "info").WithClock(func() time.Time { return fixedTime })

	l.Log(Error, "abc-1", "Lambda invocation failed", map[string]any{"error": "boom"})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "10:00:00.123 ERR "), out)
	assert.NotContains(t, out, "<nil>")
	assert.Contains(t, out, "Lambda invocation failed")
	assert.Contains(t, out, "requestId=abc-1")
}
