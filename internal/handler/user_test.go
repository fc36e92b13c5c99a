package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/penshort/tracelog/internal/config"
	"github.com/penshort/tracelog/internal/metrics"
	"github.com/penshort/tracelog/internal/telemetry"
)

type userTestEnv struct {
	handler  *UserHandler
	logs     *bytes.Buffer
	recorder *metrics.InMemoryRecorder
}

func newUserTestEnv(t *testing.T) *userTestEnv {
	t.Helper()

	var logs bytes.Buffer
	logger := telemetry.NewLogger(&logs, config.Log{Level: "debug", Format: "json", Source: true})
	recorder := metrics.NewInMemory()
	tracer := telemetry.NewTracer(logger, recorder, false)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	return &userTestEnv{
		handler:  NewUserHandler(tracer, logger, recorder),
		logs:     &logs,
		recorder: recorder,
	}
}

func (e *userTestEnv) post(body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.handler.Create(rec, req)
	return rec
}

func (e *userTestEnv) logLines(t *testing.T) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(e.logs.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestUserHandler_Create_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"short name", `{"name":"ab"}`, http.StatusBadRequest, "null"},
		{"long name", `{"name":"abcdef"}`, http.StatusCreated, `{"name":"abcdef"}`},
		{"empty name", `{"name":""}`, http.StatusBadRequest, "null"},
		{"single char", `{"name":"a"}`, http.StatusBadRequest, "null"},
		{"minimum length", `{"name":"abc"}`, http.StatusCreated, `{"name":"abc"}`},
		{"extra fields ignored", `{"name":"abcd","age":3}`, http.StatusCreated, `{"name":"abcd"}`},
		{"unicode name", `{"name":"日本"}`, http.StatusCreated, `{"name":"日本"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newUserTestEnv(t)
			rec := env.post(tt.body, "application/json")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

// Every name of at least three bytes is echoed back; every shorter one is refused.
func TestUserHandler_Create_LengthBoundary(t *testing.T) {
	t.Parallel()

	env := newUserTestEnv(t)
	for n := 0; n <= 10; n++ {
		name := strings.Repeat("x", n)
		body, _ := json.Marshal(map[string]string{"name": name})
		rec := env.post(string(body), "application/json")

		if n < 3 {
			if rec.Code != http.StatusBadRequest || strings.TrimSpace(rec.Body.String()) != "null" {
				t.Errorf("len %d: got %d %s, want 400 null", n, rec.Code, rec.Body.String())
			}
			continue
		}

		var got map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("len %d: decode response: %v", n, err)
		}
		if rec.Code != http.StatusCreated || got["name"] != name {
			t.Errorf("len %d: got %d %v, want 201 echoing the name", n, rec.Code, got)
		}
	}

	snap := env.recorder.Snapshot()
	if snap.UsersCreated != 8 {
		t.Errorf("UsersCreated = %d, want 8", snap.UsersCreated)
	}
	if snap.UsersRejected["validation"] != 3 {
		t.Errorf("UsersRejected[validation] = %d, want 3", snap.UsersRejected["validation"])
	}
	if snap.SpanCounts[CreateUserSpanName] != 11 {
		t.Errorf("create_user spans = %d, want 11", snap.SpanCounts[CreateUserSpanName])
	}
}

func TestUserHandler_Create_SuccessLog(t *testing.T) {
	t.Parallel()

	env := newUserTestEnv(t)
	env.post(`{"name":"abcdef"}`, "application/json")

	lines := env.logLines(t)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	line := lines[0]

	if line["level"] != "INFO" || line["msg"] != "successfully created user" {
		t.Errorf("unexpected line %v", line)
	}
	body, ok := line["response.body"].(map[string]any)
	if !ok || body["name"] != "abcdef" {
		t.Errorf("response.body = %v, want {name: abcdef}", line["response.body"])
	}
	source, ok := line["source"].(map[string]any)
	if !ok || !strings.HasSuffix(source["file"].(string), "user.go") {
		t.Errorf("expected source pointing at user.go, got %v", line["source"])
	}
	span, ok := line["span"].(map[string]any)
	if !ok || span["name"] != CreateUserSpanName {
		t.Errorf("expected create_user span, got %v", line["span"])
	}
	if span["payload.name"] != "abcdef" {
		t.Errorf("span payload.name = %v, want abcdef", span["payload.name"])
	}
}

func TestUserHandler_Create_ValidationLog(t *testing.T) {
	t.Parallel()

	env := newUserTestEnv(t)
	env.post(`{"name":"ab"}`, "application/json")

	lines := env.logLines(t)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	line := lines[0]

	if line["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", line["level"])
	}
	if line["error.kind"] != "validation" {
		t.Errorf("error.kind = %v, want validation", line["error.kind"])
	}
	if msg, _ := line["error.message"].(string); !strings.Contains(msg, "too short") {
		t.Errorf("error.message = %q", msg)
	}
	span, _ := line["span"].(map[string]any)
	if span["payload.name"] != "ab" || span["error.kind"] != "validation" {
		t.Errorf("span tags = %v, want payload.name=ab and error.kind=validation", span)
	}
}

func TestUserHandler_Create_DecodeRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
	}{
		{"missing content type", `{"name":"abcdef"}`, "", http.StatusUnsupportedMediaType},
		{"wrong content type", `{"name":"abcdef"}`, "text/plain", http.StatusUnsupportedMediaType},
		{"malformed json", `{"name":`, "application/json", http.StatusBadRequest},
		{"empty body", ``, "application/json", http.StatusBadRequest},
		{"trailing garbage", `{"name":"abcdef"} x`, "application/json", http.StatusBadRequest},
		{"missing field", `{}`, "application/json", http.StatusUnprocessableEntity},
		{"null field", `{"name":null}`, "application/json", http.StatusUnprocessableEntity},
		{"wrong type", `{"name":5}`, "application/json", http.StatusUnprocessableEntity},
		{"json with charset", `{"name":"abcdef"}`, "application/json; charset=utf-8", http.StatusCreated},
		{"vendor json", `{"name":"abcdef"}`, "application/vnd.api+json", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newUserTestEnv(t)
			rec := env.post(tt.body, tt.contentType)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				return
			}

			if got := env.recorder.Snapshot().UsersRejected["decode"]; got != 1 {
				t.Errorf("decode rejections = %d, want 1", got)
			}
			lines := env.logLines(t)
			if len(lines) != 1 || lines[0]["error.kind"] != "decode" || lines[0]["level"] != "WARN" {
				t.Errorf("unexpected log lines %v", lines)
			}
		})
	}
}

func TestIsJSONContentType(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"application/json":                true,
		"Application/JSON":                true,
		"application/json; charset=utf-8": true,
		"application/problem+json":        true,
		"text/json":                       false,
		"text/plain":                      false,
		"":                                false,
		";;":                              false,
	}

	for header, want := range tests {
		if got := isJSONContentType(header); got != want {
			t.Errorf("isJSONContentType(%q) = %v, want %v", header, got, want)
		}
	}
}
