// internal/service/template.go
package service

import (
	"fmt"
	"strings"
)

// RenderTemplate substitutes {name} placeholders with the given values.
// A placeholder with no value is a render error, so a malformed template
// fails the one event it belongs to instead of going out half-filled.
// Validation runs against the template itself; braces that arrive inside
// a substituted value are plain text. An unmatched brace is literal too.
func RenderTemplate(template string, data map[string]string) (string, error) {
	for _, key := range placeholderKeys(template) {
		if _, ok := data[key]; !ok {
			return "", fmt.Errorf("template references unknown placeholder {%s}", key)
		}
	}
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result, nil
}

func placeholderKeys(s string) []string {
	var keys []string
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end := strings.IndexByte(s[i+1:], '}')
		if end < 0 {
			break
		}
		// A second opening brace before the close restarts the scan there.
		if inner := strings.IndexByte(s[i+1:i+1+end], '{'); inner >= 0 {
			i += inner
			continue
		}
		keys = append(keys, s[i+1:i+1+end])
		i += end + 1
	}
	return keys
}
