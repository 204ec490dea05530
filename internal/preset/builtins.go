package preset

// Builtins returns the builtin preset registry: preset name to YAML
// source. The map is rebuilt per call so a caller's copy stays immutable
// from this package's perspective; pass it into NewLoader explicitly
// rather than relying on shared state.
func Builtins() map[string]string {
	return map[string]string{
		"base": `
permissions:
  allow:
    - Read
    - Glob
    - Grep
env:
  STRATA_PROFILE: "base"
`,
		"strict": `
extends: base
permissions:
  ask:
    - Write
    - Edit
  deny:
    - Bash(curl:*)
    - Write(**/secrets/**)
includeCoAuthoredBy: false
`,
		"open-source": `
extends: base
permissions:
  allow:
    - Write
    - Edit
    - Bash(git:*)
includeCoAuthoredBy: true
`,
	}
}
