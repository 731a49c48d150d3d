// Package ui styles command output with lipgloss.
//
// A [Palette] holds the named styles used by the CLI: titles, successes, errors, warnings and help text.
// [RenderLookup] and [RenderProgress] turn lookup results and progress updates into single styled lines.
//
// Styles degrade to plain text when the output is not a terminal, so piped output stays clean.
package ui
