// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"slices"
	"strings"
)

// Unit is a single tokenized command line. It is never empty and is not
// modified after parsing.
type Unit struct {
	tokens []string
	line   int
}

// NewUnit builds a Unit from tokens, dropping empty ones.
// The boolean is false when no tokens remain.
func NewUnit(tokens ...string) (Unit, bool) {
	kept := slices.DeleteFunc(slices.Clone(tokens), func(s string) bool { return s == "" })
	if len(kept) == 0 {
		return Unit{}, false
	}

	return Unit{tokens: kept}, true
}

// Tokens returns a copy of the unit's tokens.
func (u Unit) Tokens() []string {
	return slices.Clone(u.tokens)
}

// CommandLine joins the tokens with single spaces.
func (u Unit) CommandLine() string {
	return strings.Join(u.tokens, " ")
}

// Line is the 1-based line number in the source, or 0 if the unit was built directly.
func (u Unit) Line() int {
	return u.line
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return u.CommandLine()
}

// List is the ordered set of units read from one source.
type List []Unit
