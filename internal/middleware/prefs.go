package middleware

import (
	"net/http"

	"github.com/diewo77/dashboard-invoices/internal/i18n"
)

const langCookie = "lang"

// Prefs resolves the UI language (query > cookie > Accept-Language > default) and stores it
// in the request context. A language given in the query is persisted in a cookie for ~30 days.
func Prefs(defaultLang string) func(http.Handler) http.Handler {
	if !i18n.Supported(defaultLang) {
		defaultLang = i18n.DefaultLang
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if c, err := r.Cookie(langCookie); err == nil && i18n.Supported(c.Value) {
				lang = c.Value
			}
			if ql := r.URL.Query().Get("lang"); i18n.Supported(ql) {
				lang = ql
				http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: 86400 * 30})
			}
			if lang == "" && r.Header.Get("Accept-Language") != "" {
				lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = defaultLang
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
		})
	}
}

// LangFrom returns the language preference stored by Prefs.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}
