package toolperm

import "fmt"

// SyntaxError represents an error in permission pattern syntax.
type SyntaxError struct {
	Token   string // The problematic token
	Message string // Description of the error
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return "permission pattern error: " + e.Message
	}
	return fmt.Sprintf("invalid permission pattern %q: %s", e.Token, e.Message)
}
