package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Split separates a note into its frontmatter and body, decoding the
// frontmatter into out when out is non-nil.
func Split(content string, out any) (string, error) {
	if !strings.HasPrefix(content, separator) {
		return content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	raw := rest[:idx]
	body := strings.TrimPrefix(rest[idx+len("\n"+separator):], "\n")
	if out != nil {
		if err := yaml.Unmarshal([]byte(raw), out); err != nil {
			return "", fmt.Errorf("unmarshal frontmatter: %w", err)
		}
	}
	return body, nil
}

// Render writes meta as YAML frontmatter followed by body.
func Render(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
