package template

import (
	"bytes"
	"fmt"
	"text/template"
)

// Parse renders text/template text against fields. Used for outbound
// message bodies (announcements, reminder confirmations).
func Parse(text string, fields any) (string, error) {
	tmpl, err := template.New("").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	var result bytes.Buffer
	if err := tmpl.Execute(&result, fields); err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}

	return result.String(), nil
}
