// Package toolperm provides parsing and validation for permission pattern
// syntax: a bare tool name, or a tool name with an argument sub-pattern in
// parentheses.
package toolperm

import (
	"regexp"
	"strings"
)

// Permission represents a parsed permission pattern.
type Permission struct {
	// Tool is the tool name (e.g., "Read", "Bash", "Write").
	Tool string

	// Pattern is the optional argument sub-pattern
	// (e.g., "git:*" from "Bash(git:*)", "**/secrets/**" from "Write(**/secrets/**)").
	// Empty string if no sub-pattern is specified.
	Pattern string
}

// String returns the permission in its canonical string form.
func (p Permission) String() string {
	if p.Pattern == "" {
		return p.Tool
	}
	return p.Tool + "(" + p.Pattern + ")"
}

// permRegex matches permission pattern syntax: ToolName or ToolName(pattern).
// Tool names start with an uppercase letter followed by alphanumerics or
// underscores (underscores cover MCP-style tool names like Mcp__server__tool).
// Captures: group 1 = tool name, group 2 = sub-pattern (optional, without parens).
var permRegex = regexp.MustCompile(`^([A-Z][a-zA-Z0-9_]*)(?:\((.+)\))?$`)

// Parse parses a single permission pattern token.
func Parse(token string) (Permission, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Permission{}, &SyntaxError{Token: token, Message: "empty permission pattern"}
	}

	matches := permRegex.FindStringSubmatch(token)
	if matches == nil {
		return Permission{}, &SyntaxError{
			Token:   token,
			Message: "must be a tool name or Tool(pattern); tool names start with an uppercase letter",
		}
	}

	return Permission{
		Tool:    matches[1],
		Pattern: matches[2], // empty string if no capture
	}, nil
}

// Valid reports whether token matches the permission pattern grammar.
func Valid(token string) bool {
	_, err := Parse(token)
	return err == nil
}

// ToolName returns the bare tool name from a permission pattern, stripping
// any argument sub-pattern. Invalid tokens are returned unchanged so the
// schema validator can report them rather than losing the original text.
func ToolName(token string) string {
	perm, err := Parse(token)
	if err != nil {
		return token
	}
	return perm.Tool
}

// ParseList parses a slice of permission pattern tokens.
func ParseList(tokens []string) ([]Permission, error) {
	perms := make([]Permission, 0, len(tokens))
	for _, token := range tokens {
		perm, err := Parse(token)
		if err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, nil
}

// Format converts a slice of permissions back to their string tokens.
func Format(perms []Permission) []string {
	if len(perms) == 0 {
		return nil
	}
	tokens := make([]string, len(perms))
	for i, perm := range perms {
		tokens[i] = perm.String()
	}
	return tokens
}
