package scrape

import "fmt"

// Result tracks counts and errors from one scrape run.
type Result struct {
	Discovered int
	Fetched    int
	Parsed     int
	Skipped    int // documents with no extractable ratings
	Errors     []string
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"discovered=%d fetched=%d parsed=%d skipped=%d errors=%d",
		r.Discovered, r.Fetched, r.Parsed, r.Skipped, len(r.Errors),
	)
}
