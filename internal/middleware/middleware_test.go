package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func langOf(t *testing.T, r *http.Request, defaultLang string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var got string
	h := Prefs(defaultLang)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = LangFrom(r)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return got, w
}

func TestPrefsPrecedence(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got, _ := langOf(t, r, "en"); got != "en" {
		t.Fatalf("expected default en got %s", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	if got, _ := langOf(t, r, "en"); got != "fr" {
		t.Fatalf("expected fr from header got %s", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "fr-FR")
	r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	if got, _ := langOf(t, r, "en"); got != "en" {
		t.Fatalf("cookie should win over header, got %s", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	got, w := langOf(t, r, "en")
	if got != "fr" {
		t.Fatalf("query should win, got %s", got)
	}
	if len(w.Result().Cookies()) != 1 {
		t.Fatalf("expected lang cookie to be persisted")
	}
}

func TestPrefsIgnoresUnsupported(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?lang=xx", nil)
	got, w := langOf(t, r, "de")
	if got != "en" {
		t.Fatalf("expected en fallback got %s", got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("unsupported lang must not be persisted")
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusTeapot) {
		t.Fatalf("expected status 418 got %v", got)
	}
}
