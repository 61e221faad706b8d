// Package view renders the dashboard HTML templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/dashboard-invoices/internal/i18n"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tplCache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

// Funcs returns the template helpers bound to the request language.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"year": func() int { return time.Now().Year() },
		// money formats minor units as a dollar amount.
		"money": func(minor int64) string {
			sign := ""
			if minor < 0 {
				sign, minor = "-", -minor
			}
			return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// parse returns the layout+page template set for name, parsing it once.
func parse(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New("layout.html").Option("missingkey=zero").Funcs(Funcs(i18n.DefaultLang)).
		ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, err
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes the named page inside the layout using lang for translations.
func Render(w io.Writer, lang, name string, data map[string]any) error {
	base, err := parse(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Lang"]; !exists {
		data["Lang"] = lang
	}
	return t.Funcs(Funcs(lang)).Execute(w, data)
}

// RenderBytes renders into memory, for pages that are cached.
func RenderBytes(lang, name string, data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, lang, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML writes a rendered page with the given status.
func WriteHTML(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page)
}
