package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bryanwahyu/chatlens/internal/application/analysis"
	"github.com/bryanwahyu/chatlens/internal/domain/analysiserrors"
	"github.com/bryanwahyu/chatlens/internal/domain/chat"
	"github.com/bryanwahyu/chatlens/internal/middleware"
)

const twoMessages = "[오후 1:23] 나 : 뭐해?\n[오후 1:24] 친구 : 그냥 있어"

type fakeSource struct {
	text string
	err  error
}

func (f fakeSource) Load(context.Context) (string, error) { return f.text, f.err }
func (f fakeSource) Name() string                         { return "fake" }

type memErrors struct{ recs []*analysiserrors.Record }

func (m *memErrors) Save(_ context.Context, r *analysiserrors.Record) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memErrors) Latest(_ context.Context, limit int) ([]*analysiserrors.Record, error) {
	if limit < len(m.recs) {
		return m.recs[:limit], nil
	}
	return m.recs, nil
}

func newService() *analysis.Service {
	return &analysis.Service{Settings: chat.DefaultSettings()}
}

func postText(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze_text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func textBody(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v (%q)", err, rec.Body.String())
	}
	return body["error"]
}

func TestAnalyzeTextTwoMessages(t *testing.T) {
	h := NewRouter(newService(), Options{})
	rec := postText(t, h, textBody(t, twoMessages))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var res chat.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TotalMessages != 2 {
		t.Fatalf("expected 2 messages, got %d", res.TotalMessages)
	}
	if len(res.Participation) != 2 || res.Participation[0].Ratio != 50 || res.Participation[1].Ratio != 50 {
		t.Fatalf("expected 50/50 participation, got %+v", res.Participation)
	}
	if res.Participation[0].Sender != "나" {
		t.Fatalf("tie should keep first appearance, got %+v", res.Participation)
	}
	if len(res.TimeDistribution) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(res.TimeDistribution))
	}
	if res.TimeDistribution[13].Count != 2 {
		t.Fatalf("expected hour 13 count 2, got %+v", res.TimeDistribution[13])
	}
	if res.InterestScore < 0 || res.InterestScore > 100 || res.InterestLabel == "" {
		t.Fatalf("bad insight: %d %q", res.InterestScore, res.InterestLabel)
	}
}

func TestAnalyzeTextCarriageReturnLines(t *testing.T) {
	h := NewRouter(newService(), Options{})
	rec := postText(t, h, textBody(t, "[13:00] a : x\r[14:01] b : y"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res chat.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TotalMessages != 2 || len(res.Participation) != 2 {
		t.Fatalf("CR must separate messages, got %d messages %+v", res.TotalMessages, res.Participation)
	}
	if res.TimeDistribution[13].Count != 1 || res.TimeDistribution[14].Count != 1 {
		t.Fatalf("unexpected slots %+v %+v", res.TimeDistribution[13], res.TimeDistribution[14])
	}
}

func TestAnalyzeTextFieldsAlwaysPresent(t *testing.T) {
	h := NewRouter(newService(), Options{})
	rec := postText(t, h, textBody(t, "[10:00] 나 : ㅋㅋ"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"totalMessages", "participation", "keywords", "timeDistribution", "interestScore", "interestLabel", "topic", "summary"} {
		if _, ok := raw[k]; !ok {
			t.Fatalf("missing field %q in %s", k, rec.Body.String())
		}
	}
	if string(raw["keywords"]) != "[]" {
		t.Fatalf("expected empty keyword array, got %s", raw["keywords"])
	}
}

func TestAnalyzeTextErrors(t *testing.T) {
	h := NewRouter(newService(), Options{MaxBodyBytes: 256})

	cases := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"empty text", textBody(t, ""), http.StatusBadRequest, chat.MsgEmptyText},
		{"whitespace text", textBody(t, " \n\t "), http.StatusBadRequest, chat.MsgEmptyText},
		{"missing field", `{}`, http.StatusBadRequest, chat.MsgEmptyText},
		{"empty body", ``, http.StatusBadRequest, chat.MsgEmptyText},
		{"blank body", "  \n", http.StatusBadRequest, chat.MsgEmptyText},
		{"no brackets", textBody(t, "hello world\nno timestamps here"), http.StatusUnprocessableEntity, chat.MsgBadFormat},
		{"malformed json", `{"text": `, http.StatusBadRequest, MsgBadRequest},
		{"wrong type", `{"text": 42}`, http.StatusBadRequest, MsgBadRequest},
		{"too large", textBody(t, strings.Repeat("가", 200)), http.StatusRequestEntityTooLarge, MsgTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postText(t, h, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if got := errorMessage(t, rec); got != tc.msg {
				t.Fatalf("expected error %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestAnalyzeLegacy(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := NewRouter(newService(), Options{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if errorMessage(t, rec) != MsgNoSource {
			t.Fatalf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("configured", func(t *testing.T) {
		svc := newService()
		svc.Source = fakeSource{text: twoMessages}
		h := NewRouter(svc, Options{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var res chat.AnalysisResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if res.TotalMessages != 2 {
			t.Fatalf("expected 2 messages, got %d", res.TotalMessages)
		}
	})

	t.Run("source failure is internal and recorded", func(t *testing.T) {
		sink := &memErrors{}
		svc := newService()
		svc.Source = fakeSource{err: errors.New("disk on fire")}
		svc.Errors = sink
		h := NewRouter(svc, Options{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if msg := errorMessage(t, rec); msg != chat.MsgAnalysisFailed {
			t.Fatalf("cause leaked to caller: %q", msg)
		}
		if len(sink.recs) != 1 || sink.recs[0].Phase != analysis.PhaseLegacy {
			t.Fatalf("expected one legacy record, got %+v", sink.recs)
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/errors?limit=5", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from /api/errors, got %d", rec.Code)
		}
		var list []analysiserrors.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 record, got %d", len(list))
		}
	})
}

func TestRecentErrorsWithoutSink(t *testing.T) {
	h := NewRouter(newService(), Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/errors", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := NewRouter(newService(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "bad id\nwith newline")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got == "" || strings.Contains(got, " ") {
		t.Fatalf("expected generated request id, got %q", got)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	h := NewRouter(newService(), Options{APIKeys: map[string]string{"web": "s3cret"}})

	rec := postText(t, h, textBody(t, twoMessages))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze_text", strings.NewReader(textBody(t, twoMessages)))
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health must not need a key, got %d", rec.Code)
	}
}

func TestRateLimited(t *testing.T) {
	h := NewRouter(newService(), Options{RateLimiter: middleware.NewRateLimiter(1, 0)})

	if rec := postText(t, h, textBody(t, twoMessages)); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	rec := postText(t, h, textBody(t, twoMessages))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(newService(), Options{AllowedOrigins: []string{"*"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze_text", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers, got %v", rec.Header())
	}
}

func TestHealthEndpoints(t *testing.T) {
	failing := middleware.CheckerFunc(func(context.Context) error { return errors.New("down") })
	h := NewRouter(newService(), Options{HealthCheckers: map[string]middleware.HealthChecker{"chat_source": failing}})

	cases := map[string]int{
		"/health":  http.StatusOK,
		"/readyz":  http.StatusOK,
		"/metrics": http.StatusOK,
		"/healthz": http.StatusServiceUnavailable,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rec.Code)
		}
	}
}

func TestStaticSPAFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewRouter(newService(), Options{StaticDir: dir})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/app.js"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("asset not served: %d %q", rec.Code, rec.Body.String())
	}
	if rec := get("/result/42"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "app") {
		t.Fatalf("expected index fallback, got %d", rec.Code)
	}
	if rec := get("/missing.css"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing asset, got %d", rec.Code)
	}
	if rec := get("/api/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected API 404, got %d", rec.Code)
	} else if b, _ := io.ReadAll(rec.Body); !strings.Contains(string(b), "error") {
		t.Fatalf("expected JSON error for unknown API path, got %q", b)
	}
}
