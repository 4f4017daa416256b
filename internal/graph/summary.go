package graph

import (
	"strings"
	"unicode"
)

// shortTokenBudget is the maximum token estimate allowed for a short summary.
const shortTokenBudget = 80

// summaryRule maps a declaration-name prefix to a verb template. Rules are
// matched in order against the first word of the camel/Pascal-split name;
// the first match wins.
type summaryRule struct {
	prefix string
	verb   string
}

var summaryRules = []summaryRule{
	{"get", "gets"},
	{"set", "sets"},
	{"is", "checks if"},
	{"has", "checks if"},
	{"create", "creates"},
	{"new", "creates"},
	{"make", "creates"},
	{"delete", "deletes"},
	{"remove", "deletes"},
	{"update", "updates"},
	{"fetch", "loads"},
	{"load", "loads"},
	{"read", "loads"},
	{"write", "saves"},
	{"save", "saves"},
	{"store", "saves"},
	{"handle", "processes"},
	{"process", "processes"},
	{"validate", "validates"},
	{"check", "validates"},
	{"parse", "parses"},
	{"init", "initializes"},
}

// Summarize synthesizes a short summary for a declaration. Priority:
// first non-empty line of the doc comment, then a verb template derived from
// the name prefix, then the space-split name itself. The result is truncated
// to the 80-token budget.
func Summarize(doc, name string, params []string) string {
	if line := firstDocLine(doc); line != "" {
		return truncateSummary(line)
	}

	words := splitIdentifier(name)
	if len(words) == 0 {
		return "performs operation"
	}

	first := strings.ToLower(words[0])
	for _, rule := range summaryRules {
		if first != rule.prefix {
			continue
		}
		rest := strings.ToLower(strings.Join(words[1:], " "))
		if rest == "" {
			rest = strings.ToLower(strings.Join(params, " "))
		}
		if rest == "" {
			return truncateSummary(rule.verb + " value")
		}
		return truncateSummary(rule.verb + " " + rest)
	}

	return truncateSummary(strings.ToLower(strings.Join(words, " ")))
}

// EstimateTokens approximates the token count of s as ceil(len/4), the
// conventional chars-per-token ratio for code-adjacent text.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + 3) / 4
}

// firstDocLine returns the first non-empty line of a documentation comment,
// stripped of comment markers.
func firstDocLine(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = stripCommentMarkers(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// stripCommentMarkers removes leading/trailing comment syntax from one line.
func stripCommentMarkers(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{"///", "//!", "//", "/**", "/*", "#"} {
		if strings.HasPrefix(line, marker) {
			line = line[len(marker):]
			break
		}
	}
	line = strings.TrimSuffix(line, "*/")
	line = strings.TrimLeft(line, "*!")
	line = strings.Trim(line, `"'`+"`")
	return strings.TrimSpace(line)
}

// splitIdentifier splits a camelCase, PascalCase, or snake_case identifier
// into lowercase-comparable words.
func splitIdentifier(name string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			// Word boundary unless we are inside an acronym run (HTTPServer
			// splits as HTTP, Server).
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				flush()
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// truncateSummary enforces the token budget: if the estimate exceeds it, the
// string is cut to budget*4-3 characters with an ellipsis marker appended.
func truncateSummary(s string) string {
	if EstimateTokens(s) <= shortTokenBudget {
		return s
	}
	cut := shortTokenBudget*4 - 3
	return s[:cut] + "..."
}
