package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/blueprint"
	bperrors "github.com/matzehuels/blueprint/pkg/errors"
)

const testIdea = "An app that reminds students of library due dates"

func respond(w http.ResponseWriter, success bool, message string, data any, errs ...string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
		"errors":  errs,
	})
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://x", "localhost:8000"} {
		if _, err := NewClient(u); err == nil {
			t.Errorf("NewClient(%q) should fail", u)
		}
	}
}

func TestGenerateBlueprint(t *testing.T) {
	var got struct {
		Idea string `json:"idea"`
		Mode string `json:"mode"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/planning/generate-blueprint" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		respond(w, true, "ok", map[string]any{
			"blueprint": map[string]any{
				"summary":     map[string]any{"problem_statement": "Late returns"},
				"feasibility": map[string]any{"feasibility_level": "High"},
			},
			"provider_used": "gemini",
		})
	})

	res, err := c.GenerateBlueprint(context.Background(), "  "+testIdea+"\n", blueprint.ModeQuick)
	if err != nil {
		t.Fatalf("GenerateBlueprint: %v", err)
	}
	if got.Idea != testIdea || got.Mode != "QUICK_BLUEPRINT" {
		t.Errorf("request = %+v", got)
	}
	if res.Provider != "gemini" || res.Blueprint.Summary.ProblemStatement != "Late returns" {
		t.Errorf("result = %+v", res)
	}
	if res.Blueprint.Feasibility.Level != blueprint.FeasibilityHigh || len(res.Blueprint.Features.Features) == 0 {
		t.Error("blueprint not normalized")
	}
}

func TestGenerateBlueprintInteractive(t *testing.T) {
	var gotIdea string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotIdea = req["idea"]
		respond(w, true, "ok", map[string]any{"blueprint": map[string]any{}})
	})
	d := NewDialogue(testIdea, nil)
	d.Answer("1")
	if _, err := c.GenerateBlueprint(context.Background(), d.Refined(), blueprint.ModeInteractive); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gotIdea, "\nQ: Who are the main users of this project? - A: Students") {
		t.Errorf("refined idea lost its answers: %q", gotIdea)
	}
}

func TestGenerateBlueprintValidation(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	for _, idea := range []string{"", "too short", "Please write the code for a todo app"} {
		_, err := c.GenerateBlueprint(context.Background(), idea, blueprint.ModeQuick)
		if !bperrors.Is(err, bperrors.ErrCodeInvalidIdea) {
			t.Errorf("GenerateBlueprint(%q) error = %v", idea, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("backend called %d times for invalid ideas", calls.Load())
	}
}

func TestGenerateBlueprintUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, false, "The AI service is temporarily unavailable.", nil, "quota exceeded")
	})
	_, err := c.GenerateBlueprint(context.Background(), testIdea, blueprint.ModeQuick)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if !bperrors.Is(err, bperrors.ErrCodeBackendUnavailable) {
		t.Errorf("code = %q", bperrors.GetCode(err))
	}
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Message != "The AI service is temporarily unavailable." || ue.Details[0] != "quota exceeded" {
		t.Errorf("UnavailableError = %+v", ue)
	}
}

func TestGenerateBlueprintMissingBlueprint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, true, "ok", map[string]any{"provider_used": "x"})
	})
	if _, err := c.GenerateBlueprint(context.Background(), testIdea, blueprint.ModeQuick); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v", err)
	}
}

func TestRetries(t *testing.T) {
	tests := []struct {
		name      string
		status    []int
		wantCalls int32
		wantCode  bperrors.Code
	}{
		{"recovers after 5xx", []int{502, 503, 200}, 3, ""},
		{"gives up", []int{500, 500, 500}, 3, bperrors.ErrCodeNetwork},
		{"4xx is final", []int{404}, 1, bperrors.ErrCodeBackendUnavailable},
		{"429 is retried", []int{429, 200}, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				if code := tt.status[n-1]; code != 200 {
					w.WriteHeader(code)
					return
				}
				respond(w, true, "ok", map[string]any{"questions": []any{}})
			})
			_, err := c.ClarifyingQuestions(context.Background(), testIdea)
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
			if got := bperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestRetryAfterIsCappedAndLogged(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		respond(w, true, "ok", map[string]any{"questions": []any{}})
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithRetry(2, time.Millisecond),
		WithMaxRetryDelay(5*time.Millisecond), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if _, err := c.ClarifyingQuestions(context.Background(), testIdea); err != nil {
		t.Fatal(err)
	}
	if took := time.Since(start); took > 5*time.Second {
		t.Errorf("Retry-After not capped, took %v", took)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	out := buf.String()
	if !strings.Contains(out, "retrying backend request") || !strings.Contains(out, "status 429") {
		t.Errorf("retry not logged: %q", out)
	}
}

func TestContextTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// Runs before the server's Close so a lingering handler cannot block it.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ClarifyingQuestions(ctx, testIdea)
	if !bperrors.Is(err, bperrors.ErrCodeTimeout) {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestClarifyingQuestions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/api/idea" || req["mode"] != "interactive" || req["raw_idea"] != testIdea {
			t.Errorf("unexpected request %s %v", r.URL.Path, req)
		}
		respond(w, true, "ok", map[string]any{
			"mode": "interactive",
			"questions": []map[string]any{
				{"question_id": "a", "question_text": "Who uses it?", "options": []string{"Students"}},
				{"question_text": "   "},
				{"question_text": "Deadline?"},
			},
		})
	})
	qs, err := c.ClarifyingQuestions(context.Background(), testIdea)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 || qs[0].ID != "a" || qs[1].ID != "q3" || qs[0].Options[0] != "Students" {
		t.Errorf("questions = %+v", qs)
	}
}

func TestExpandIdea(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/idea/understand" {
			t.Errorf("path = %s", r.URL.Path)
		}
		respond(w, true, "ok", map[string]any{
			"original_idea": testIdea,
			"expanded":      map[string]any{"problem_statement": "P", "target_users": []string{"Students"}},
		})
	})
	e, err := c.ExpandIdea(context.Background(), testIdea)
	if err != nil {
		t.Fatal(err)
	}
	if e.ProblemStatement != "P" || len(e.TargetUsers) != 1 {
		t.Errorf("expanded = %+v", e)
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := down.Health(context.Background()); !bperrors.Is(err, bperrors.ErrCodeNetwork) {
		t.Errorf("Health on 503 = %v", err)
	}
}

// =============================================================================
// Dialogue
// =============================================================================

type fakeSource struct {
	qs  []Question
	err error
}

func (f fakeSource) ClarifyingQuestions(ctx context.Context, idea string) ([]Question, error) {
	return f.qs, f.err
}

func TestStartDialogue(t *testing.T) {
	backendQs := []Question{{ID: "x", Text: "Budget?"}}
	tests := []struct {
		name         string
		src          QuestionSource
		wantScripted bool
		wantErr      bool
	}{
		{"backend questions", fakeSource{qs: backendQs}, false, false},
		{"no source", nil, true, false},
		{"backend down", fakeSource{err: ErrUnavailable}, true, false},
		{"backend returns none", fakeSource{}, true, false},
		{"cancelled", fakeSource{err: context.Canceled}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := StartDialogue(context.Background(), tt.src, testIdea)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err != nil {
				return
			}
			if d.Scripted() != tt.wantScripted {
				t.Errorf("Scripted = %v", d.Scripted())
			}
		})
	}

	if _, err := StartDialogue(context.Background(), nil, "short"); !bperrors.Is(err, bperrors.ErrCodeInvalidIdea) {
		t.Errorf("invalid idea error = %v", err)
	}
}

func TestDialogueFlow(t *testing.T) {
	d := NewDialogue("  "+testIdea+"  ", nil)
	if d.Idea() != testIdea {
		t.Errorf("Idea = %q", d.Idea())
	}
	if d.Refined() != testIdea {
		t.Errorf("Refined without answers = %q", d.Refined())
	}

	d.Answer("2")   // option 2 of q1
	d.Skip()        // q2
	d.Answer(" 9 ") // out of range: kept as text
	d.Answer("Two weeks")
	if done, total := d.Progress(); done != 4 || total != len(DefaultQuestions) {
		t.Errorf("Progress = %d/%d", done, total)
	}
	q, ok := d.Current()
	if !ok || q.ID != "q5" {
		t.Errorf("Current = %+v, %v", q, ok)
	}
	d.Answer("1")
	if !d.Done() {
		t.Error("dialogue should be done")
	}
	if _, ok := d.Current(); ok {
		t.Error("Current after done")
	}
	d.Answer("ignored")

	var got []string
	for _, a := range d.Answers() {
		got = append(got, a.QuestionID+"="+a.Answer)
	}
	want := "q1=Teachers q3=9 q4=Two weeks q5=Beginner"
	if strings.Join(got, " ") != want {
		t.Errorf("answers = %v", got)
	}

	refined := d.Refined()
	wantRefined := testIdea + "\n\nStudent's clarifications:" +
		"\nQ: Who are the main users of this project? - A: Teachers" +
		"\nQ: Where should it run? - A: 9" +
		"\nQ: How much time do you have? - A: Two weeks" +
		"\nQ: How experienced are you with programming? - A: Beginner"
	if refined != wantRefined {
		t.Errorf("Refined =\n%s\nwant\n%s", refined, wantRefined)
	}
	if v, err := ValidateRefined(refined); err != nil || v != refined {
		t.Errorf("ValidateRefined = %q, %v", v, err)
	}
}

func TestValidateRefined(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain idea", testIdea, false},
		{"with answers", testIdea + "\n\nStudent's clarifications:\nQ: a - A: b", false},
		{"short idea", "tiny\n\nStudent's clarifications:\nQ: a - A: b", true},
		{"too long", testIdea + "\n\n" + strings.Repeat("x", MaxRefinedLength), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRefined(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
