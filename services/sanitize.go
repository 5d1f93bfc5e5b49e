package services

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainTextPolicyOnce sync.Once
	plainTextPolicy     *bluemonday.Policy
)

// sanitizePlainText strips any markup pasted into clause or template bodies.
// Contracts are plain text, so entities escaped by the policy are decoded again.
func sanitizePlainText(raw string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "\x00", ""))
	if trimmed == "" {
		return ""
	}
	plainTextPolicyOnce.Do(func() {
		plainTextPolicy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(plainTextPolicy.Sanitize(trimmed))
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	return strings.TrimSpace(cleaned)
}
