// Package diag defines the collected diagnostics emitted by the
// symbol-table builder and resolver. Diagnostics are values, never
// panics: both passes append to an ordered vector and keep going.
package diag

import "fmt"

// Category is the closed taxonomy of analysis findings.
type Category int

const (
	CategoryDuplicateSymbol Category = iota
	CategoryUnresolvedUnqualified
	CategoryUnresolvedMember
	CategoryMetatypeMismatch
	CategoryTypeHasNoMembers
	CategoryOutOfLineRedefinitionConflict
	CategoryIncludeFailure
	CategoryParseFailure
)

var categoryNames = map[Category]string{
	CategoryDuplicateSymbol:               "duplicate-symbol",
	CategoryUnresolvedUnqualified:         "unresolved-unqualified",
	CategoryUnresolvedMember:              "unresolved-member",
	CategoryMetatypeMismatch:              "metatype-mismatch",
	CategoryTypeHasNoMembers:              "type-has-no-members",
	CategoryOutOfLineRedefinitionConflict: "out-of-line-redefinition-conflict",
	CategoryIncludeFailure:                "include-failure",
	CategoryParseFailure:                  "parse-failure",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown-category"
}

// Diagnostic is one analysis finding.
type Diagnostic struct {
	Category Category
	Message  string
}

// New builds a diagnostic with a formatted message.
func New(category Category, format string, args ...any) Diagnostic {
	return Diagnostic{Category: category, Message: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) Error() string {
	return d.Message
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Category, d.Message)
}

// CountByCategory tallies a diagnostic vector by category.
func CountByCategory(diags []Diagnostic) map[Category]int {
	counts := make(map[Category]int)
	for _, d := range diags {
		counts[d.Category]++
	}
	return counts
}
