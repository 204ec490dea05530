// Package frontmatter parses and formats YAML frontmatter in markdown
// sources. Frontmatter is optional: content without a leading delimiter
// is returned whole as the body.
package frontmatter

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/strata/internal/errors"
)

var (
	delimLF   = []byte("---\n")
	delimCRLF = []byte("---\r\n")
)

// Parse extracts YAML frontmatter and body content from a reader.
// If no frontmatter is present, matter is left untouched and the full
// content is returned as the body.
func Parse[T any](r io.Reader, matter *T) (body []byte, err error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}

	if !bytes.HasPrefix(content, delimLF) && !bytes.HasPrefix(content, delimCRLF) {
		return content, nil
	}

	// Skip the opening delimiter line.
	rest := content[3:]
	if len(rest) > 0 && rest[0] == '\r' {
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}

	// Find the closing delimiter on its own line.
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) < 2 {
		parts = bytes.SplitN(rest, []byte("\r\n---"), 2)
	}
	if len(parts) < 2 {
		// Unterminated frontmatter: treat the whole content as body.
		return content, nil
	}

	if err := yaml.Unmarshal(parts[0], matter); err != nil {
		return nil, errors.Wrap(err, "parsing frontmatter")
	}

	body = parts[1]
	if len(body) > 0 && body[0] == '\r' {
		body = body[1:]
	}
	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}
	return body, nil
}

// Format serializes matter as YAML wrapped in "---" delimiters followed by
// the body content.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
