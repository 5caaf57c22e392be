package remap

import "fmt"

// RuleError reports a match whose captured text could not be interpreted,
// which means the rule matched something that is not a colour.
type RuleError struct {
	Rule  string
	Match string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: cannot rewrite %q: %v", e.Rule, e.Match, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
