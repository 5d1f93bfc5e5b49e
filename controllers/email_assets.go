package controllers

import (
	"fmt"
	"html/template"
	"os"
	"strings"
	"sync"
)

var (
	emailLogoOnce sync.Once
	emailLogoHTML string
)

// firmLogoHTML renders the logos listed in FIRM_LOGO_URLS once per process.
func firmLogoHTML() string {
	emailLogoOnce.Do(func() {
		alt := strings.TrimSpace(os.Getenv("FIRM_NAME"))
		if alt == "" {
			alt = "Escritório de advocacia"
		}

		snippets := make([]string, 0)
		for _, url := range parseLogoList(os.Getenv("FIRM_LOGO_URLS")) {
			if snippet := renderLogoURL(url, alt); snippet != "" {
				snippets = append(snippets, snippet)
			}
		}
		if len(snippets) == 0 {
			return
		}

		emailLogoHTML = fmt.Sprintf(
			`<div style="text-align:center;margin:0 auto 18px auto;">%s</div>`,
			strings.Join(snippets, ""),
		)
	})
	return emailLogoHTML
}

func renderLogoURL(url, alt string) string {
	escaped := template.HTMLEscapeString(strings.TrimSpace(url))
	if escaped == "" {
		return ""
	}
	return fmt.Sprintf(`<span style="display:inline-block;margin:0 12px;"><img src="%s" alt="%s" style="display:block;height:64px;width:auto;max-width:100%%;object-fit:contain;" /></span>`,
		escaped, template.HTMLEscapeString(alt))
}

// parseLogoList splits on commas, semicolons and newlines.
func parseLogoList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
