package classify

import "fmt"

// Outcome is the result of classifying one crate: either Classified with a
// definite answer, or Unclassifiable with the reason the answer could not be
// determined. The zero Outcome is Classified(false).
type Outcome struct {
	match  bool
	reason error
}

// Classified returns a definite outcome.
func Classified(match bool) Outcome { return Outcome{match: match} }

// Unclassifiable returns an outcome recording why classification failed.
// A nil reason is treated as Classified(false).
func Unclassifiable(reason error) Outcome { return Outcome{reason: reason} }

// Match collapses the outcome to a boolean: true only for Classified(true).
func (o Outcome) Match() bool { return o.reason == nil && o.match }

// IsClassified reports whether the outcome is definite.
func (o Outcome) IsClassified() bool { return o.reason == nil }

// Reason returns why the crate could not be classified, or nil.
func (o Outcome) Reason() error { return o.reason }

func (o Outcome) String() string {
	switch {
	case o.reason != nil:
		return fmt.Sprintf("unclassifiable: %v", o.reason)
	case o.match:
		return "proc-macro"
	default:
		return "not a proc-macro"
	}
}
