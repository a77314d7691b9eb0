package ocla

import (
	"fmt"
	"strings"
)

// Report is the append-only diagnostic message log of one analysis run.
// Messages carry their indentation; once posted they are never mutated
// or dropped, so a failed run still explains which invariant broke.
type Report struct {
	messages []string
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Postf appends a formatted message at the given indent depth.
func (r *Report) Postf(depth int, format string, args ...any) {
	r.messages = append(r.messages, strings.Repeat("  ", depth)+fmt.Sprintf(format, args...))
}

// Messages returns a copy of all posted messages in order.
func (r *Report) Messages() []string {
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Contains reports whether any message contains the substring. Used by
// tests asserting on specific diagnostics.
func (r *Report) Contains(substr string) bool {
	for _, m := range r.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
