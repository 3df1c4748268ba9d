// Package result defines the verdict vocabulary shared by all tool adapters.
// A verdict is the small string classification of one finished verifier run.
package result

import (
	"fmt"
	"strings"
)

// Core verdicts.
const (
	// True means the checked property holds.
	True = "true"

	// False means the checked property was violated.
	False = "false"

	// Unknown means the tool finished without a conclusive answer.
	Unknown = "unknown"

	// Error means the tool failed outright.
	Error = "ERROR"

	// Timeout means the run was killed by the resource limiter.
	Timeout = "TIMEOUT"

	// Done is used by tools that only report completion, not a property
	// verdict.
	Done = "done"
)

// FalseWith returns a false verdict qualified by the violated property,
// e.g. FalseWith("unreach-call") == "false(unreach-call)".
func FalseWith(property string) string {
	if property == "" {
		return False
	}
	return fmt.Sprintf("%s(%s)", False, property)
}

// ErrorWith returns an error verdict qualified by a detail such as the exit
// code, e.g. ErrorWith("returned 2") == "ERROR (returned 2)".
func ErrorWith(detail string) string {
	if detail == "" {
		return Error
	}
	return fmt.Sprintf("%s (%s)", Error, detail)
}

// IsFalse reports whether v is the plain false verdict or any qualified
// false(...) verdict.
func IsFalse(v string) bool {
	return v == False || strings.HasPrefix(v, False+"(")
}

// IsError reports whether v is the plain error verdict or any qualified
// ERROR (...) verdict.
func IsError(v string) bool {
	return v == Error || strings.HasPrefix(v, Error+" (")
}
