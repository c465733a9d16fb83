package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/jorge-barreto/narrate/internal/pipeline"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// Generating prints a line before a generation call starts.
func Generating(what string) {
	fmt.Printf("%s[%s]%s  %s⟳ Generating %s...%s\n", Dim, timestamp(), Reset, Cyan, what, Reset)
}

// Transition prints a committed move and any parse warnings.
func Transition(out *pipeline.Outcome, duration time.Duration) {
	took := ""
	if out.Target != "" {
		took = fmt.Sprintf(" (%s, %.1fs)", out.Target, duration.Seconds())
	}
	if out.From == out.To {
		fmt.Printf("%s[%s]%s  %s✓ Regenerated %s%s%s\n", Dim, timestamp(), Reset, Green, out.Target, took, Reset)
	} else {
		fmt.Printf("%s[%s]%s  %s✓ %s → %s%s%s\n", Dim, timestamp(), Reset, Green, out.From, out.To, took, Reset)
	}
	for _, w := range out.Warnings {
		Warning(w)
	}
	if out.Completed {
		fmt.Printf("\n%s%s══ Narrative complete ══%s\n", Bold, Green, Reset)
		Hint("narrate export --format html")
	}
}

// ValidationFail prints the fields a stage still needs.
func ValidationFail(e *pipeline.ValidationError) {
	fmt.Printf("%s[%s]%s  %s✗ Cannot leave %s yet. Missing: %s%s\n",
		Dim, timestamp(), Reset, Red, e.Stage, strings.Join(e.Missing, ", "), Reset)
}

// GenerationFail prints a failed generation call and how to retry it.
func GenerationFail(e *pipeline.GenerationError, retry string) {
	fmt.Printf("%s[%s]%s  %s✗ Generating %s failed: %v%s\n", Dim, timestamp(), Reset, Red, e.Target, e.Err, Reset)
	Hint(retry)
}

// Warning prints a non-fatal problem.
func Warning(msg string) {
	fmt.Printf("  %s⚠ %s%s\n", Yellow, msg, Reset)
}

// Hint prints a follow-up command.
func Hint(cmd string) {
	fmt.Printf("\n%sNext:%s %s\n", Yellow, Reset, cmd)
}

// Done prints a short confirmation.
func Done(format string, args ...any) {
	fmt.Printf("%s✓%s %s\n", Green, Reset, fmt.Sprintf(format, args...))
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return string(r)
}
