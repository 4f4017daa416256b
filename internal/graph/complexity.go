package graph

import "regexp"

// Branch-point patterns counted by the cyclomatic estimate. Keyword families
// cover every supported language; matching is lexical, so strings and
// comments inside a body do get counted. That imprecision is accepted: the
// number is an advisory heuristic, not a verified metric.
var (
	branchKeywordRe = regexp.MustCompile(`\b(if|elif|for|foreach|while|case|when|catch|except|rescue)\b`)
	doWhileRe       = regexp.MustCompile(`\bdo\s*\{`)
	logicalOpRe     = regexp.MustCompile(`&&|\|\||\?\?`)

	// A lone "?" followed by anything except ".", ":" or "?" — a ternary
	// condition marker, excluding optional chaining ("?."), optional type
	// annotations ("?:") and nullish coalescing ("??").
	ternaryRe = regexp.MustCompile(`\?[^?.:]`)
)

// Complexity computes the cyclomatic complexity estimate for a callable
// body: base 1, +1 for each conditional, loop, case clause, catch clause,
// ternary, and short-circuiting logical operator. No cap.
func Complexity(body string) int {
	c := 1
	c += len(branchKeywordRe.FindAllStringIndex(body, -1))
	c += len(doWhileRe.FindAllStringIndex(body, -1))
	c += len(logicalOpRe.FindAllStringIndex(body, -1))

	// Strip the short-circuit operators before counting ternaries so the
	// trailing "?" of "??" is not counted twice.
	stripped := logicalOpRe.ReplaceAllString(body, "")
	c += len(ternaryRe.FindAllStringIndex(stripped, -1))
	return c
}
