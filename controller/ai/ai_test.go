package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"gtdagent/services"
	"gtdagent/storage"
	"gtdagent/store"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
	last  []services.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []services.Message) (string, error) {
	f.calls++
	f.last = messages
	return f.reply, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "gtd.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s := store.New(db)
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return s
}

func newRouter(p services.ChatProvider, s *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	AIController(r.Group("/api"), services.NewAdvisor(p), s)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAdviceValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"organization without task", `{"type":"organization"}`, "Task is required"},
		{"implementation without task", `{"type":"implementation","tasks":[]}`, "Task is required"},
		{"scheduling with object tasks", `{"type":"scheduling","tasks":{"a":1}}`, "Tasks array is required"},
		{"scheduling with string tasks", `{"type":"scheduling","tasks":"x"}`, "Tasks array is required"},
		{"scheduling null tasks", `{"type":"scheduling","tasks":null}`, "Tasks array is required"},
		{"unknown type", `{"type":"weekly-review"}`, "Invalid advice type"},
		{"missing type", `{}`, "Invalid advice type"},
		{"broken json", `{"type":`, "Invalid request body"},
	}

	p := &fakeProvider{reply: "ok"}
	r := newRouter(p, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, "/api/ai/advice", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if got := decode(t, w)["error"]; got != tt.wantErr {
				t.Fatalf("expected error %q, got %q", tt.wantErr, got)
			}
		})
	}
	if p.calls != 0 {
		t.Fatalf("provider must not be called for invalid requests, got %d calls", p.calls)
	}
}

func TestAdviceMissingKeyIsServerError(t *testing.T) {
	r := newRouter(services.NewChatProvider(services.AIConfig{Provider: services.ProviderOpenAI}, nil), nil)

	w := post(r, "/api/ai/advice", `{"type":"organization","task":{"title":"Write report"}}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != services.ErrMissingAPIKey.Error() {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestAdviceHappyPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"scheduling absent tasks", `{"type":"scheduling"}`},
		{"scheduling with tasks", `{"type":"scheduling","tasks":[{"title":"A","status":"next-action"}]}`},
		{"what to do now lenient", `{"type":"what-to-do-now","tasks":"nope","contexts":{},"context":{"currentContext":"@home"}}`},
		{"organization lenient lists", `{"type":"organization","task":{"title":"A"},"projects":"x"}`},
		{"implementation", `{"type":"implementation","task":{"title":"A","estimatedTime":30}}`},
		{"organization date-only due", `{"type":"organization","task":{"title":"A","dueDate":"2025-03-01"}}`},
		{"organization empty due", `{"type":"organization","task":{"title":"A","dueDate":"","scheduledDate":null}}`},
		{"scheduling date-only due", `{"type":"scheduling","tasks":[{"title":"A","dueDate":"2025-03-01"}]}`},
		{"what to do now fractional minutes", `{"type":"what-to-do-now","tasks":[{"title":"A","status":"next-action","estimatedTime":7.5}]}`},
		{"implementation string minutes", `{"type":"implementation","task":{"title":"A","estimatedTime":"45"}}`},
		{"browser timestamps", `{"type":"scheduling","tasks":[{"title":"A","dueDate":"2025-03-01T09:30:00.000Z","createdAt":"yesterday","contextIds":"home"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{reply: "Try the report first."}
			w := post(newRouter(p, nil), "/api/ai/advice", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if got := decode(t, w)["advice"]; got != "Try the report first." {
				t.Fatalf("unexpected advice %q", got)
			}
			if p.calls != 1 {
				t.Fatalf("expected one provider call, got %d", p.calls)
			}
		})
	}
}

func TestAdvicePromptReadsLooseTaskFields(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	body := `{"type":"scheduling","tasks":[{"title":"Taxes","dueDate":"2025-03-01","estimatedTime":7.5},{"title":"Gym","dueDate":"soon"}]}`

	if w := post(newRouter(p, nil), "/api/ai/advice", body); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	sys := p.last[0].Content
	for _, want := range []string{"1. Taxes", "Due: 2025-03-01", "Estimated time: 8 minutes", "2. Gym"} {
		if !strings.Contains(sys, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
	if strings.Count(sys, "Due:") != 1 {
		t.Error("an unreadable due date should be left out of the prompt")
	}
}

func TestAdviceIsLoggedForKnownTask(t *testing.T) {
	s := newTestStore(t)
	p := &fakeProvider{reply: "Split it in two."}
	r := newRouter(p, s)

	w := post(r, "/api/ai/advice", `{"type":"implementation","task":{"id":"t-1","title":"Move house"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	post(r, "/api/ai/advice", `{"type":"implementation","task":{"title":"No id"}}`)

	logged, err := s.AdviceForTask(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("AdviceForTask: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("expected 1 advice record, got %d", len(logged))
	}
	if logged[0].Advice != "Split it in two." || logged[0].Type != "implementation" {
		t.Fatalf("unexpected record %+v", logged[0])
	}
}

func TestAdviceLoggingFailureIsSwallowed(t *testing.T) {
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "gtd.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s := store.New(db)
	db.Close()

	w := post(newRouter(&fakeProvider{reply: "ok"}, s), "/api/ai/advice", `{"type":"organization","task":{"id":"t-1","title":"A"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite logging failure, got %d", w.Code)
	}
}

func TestChat(t *testing.T) {
	p := &fakeProvider{reply: "Hello!"}
	r := newRouter(p, nil)

	w := post(r, "/api/ai/chat", `{"message":"hi","context":{"tasks":[{"title":"A","dueDate":"2025-03-01"}],"currentTask":{"title":"A","estimatedTime":2.5}}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["response"]; got != "Hello!" {
		t.Fatalf("unexpected response %q", got)
	}
	if !strings.Contains(p.last[0].Content, "Task currently being viewed: A") {
		t.Fatal("expected chat context in the system prompt")
	}
}

func TestChatValidation(t *testing.T) {
	r := newRouter(&fakeProvider{reply: "x"}, nil)

	for _, body := range []string{`{"message":""}`, `{}`} {
		w := post(r, "/api/ai/chat", body)
		if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "Message required" {
			t.Fatalf("%s: unexpected response %d %s", body, w.Code, w.Body.String())
		}
	}

	if w := post(r, "/api/ai/chat", `{"message":"  "}`); w.Code != http.StatusOK {
		t.Fatalf("a whitespace message is still a message, got %d", w.Code)
	}

	w := post(r, "/api/ai/chat", `not json`)
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "Invalid request body" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestChatUpstreamError(t *testing.T) {
	p := &fakeProvider{err: &services.UpstreamError{Status: 401, Body: "bad key"}}
	w := post(newRouter(p, nil), "/api/ai/chat", `{"message":"hi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "AI API error: 401 - bad key" {
		t.Fatalf("unexpected error %q", got)
	}
}
