// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package validate rejects disallowed SQL constructs before they reach the
// embedded engine. Rules run on a whitespace-collapsed, case-folded copy of
// the query; the caller's original text is never modified and is what should
// be executed when validation passes.
package validate

import "strings"

// RuleError identifies the rule that rejected a query.
type RuleError struct {
	Rule    string
	Message string
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return e.Rule + ": " + e.Message
}

// rule is a single validation predicate over the normalized token list.
// A nil result means the rule passed.
type rule func(tokens []string) *RuleError

// joinKeywords are rejected because exactly one virtual table is bound per
// dataset, so there is nothing to join against.
var joinKeywords = map[string]struct{}{
	"left":  {},
	"right": {},
	"full":  {},
	"inner": {},
	"join":  {},
}

func noJoins(tokens []string) *RuleError {
	for _, tok := range tokens {
		if _, ok := joinKeywords[tok]; ok {
			return &RuleError{
				Rule:    "Joins",
				Message: "joins are not supported: queries run against a single virtual table",
			}
		}
	}
	return nil
}

// rules are evaluated in order, short-circuiting on the first rejection.
var rules = []rule{
	noJoins,
}

// Validate checks query against all rules. It returns nil when the query is
// accepted and a *RuleError when a rule rejects it.
func Validate(query string) error {
	tokens := strings.Fields(strings.ToLower(query))
	for _, r := range rules {
		if err := r(tokens); err != nil {
			return err
		}
	}
	return nil
}
