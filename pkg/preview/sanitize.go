package preview

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

func sanitizeMarkup(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return previewSanitizer().Sanitize(raw)
}

// sanitizeStylesheet keeps CSS from terminating the surrounding <style>.
func sanitizeStylesheet(raw string) string {
	return strings.ReplaceAll(raw, "</", `<\/`)
}

func previewSanitizer() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements(
			"nav", "header", "main", "aside", "section",
			"form", "label", "input", "textarea", "button",
		)
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("for").OnElements("label")
		policy.AllowAttrs("id", "name", "required").OnElements("input", "textarea")
		policy.AllowAttrs("type").OnElements("input", "button")
		policy.AllowAttrs("src", "alt").OnElements("img")
		previewPolicy = policy
	})
	return previewPolicy
}
