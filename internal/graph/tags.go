package graph

import "regexp"

// tagFamily is one ordered keyword/regex family of the side-effect tagger.
type tagFamily struct {
	tag Tag
	re  *regexp.Regexp
}

// Detection families, applied in a fixed order over body and signature.
// All matching tags attach; PURE attaches only when nothing else does.
// Stems anchor on a leading word boundary only, so camel-cased idioms like
// WriteFile or openConn still match.
var tagFamilies = []tagFamily{
	{TagIO, regexp.MustCompile(`(?i)\b(open|read|writ|close|flush|fopen|file|stdin|stdout|stderr|ioutil|bufio)`)},
	{TagDB, regexp.MustCompile(`(?i)\b(query|execut|select|insert|updat|delet|commit|rollback|cursor|sql|db\.|database)`)},
	{TagNetwork, regexp.MustCompile(`(?i)\b(fetch|http|socket|websocket|request|urllib|axios|grpc|dial|listen)`)},
	{TagAsync, regexp.MustCompile(`(?i)\b(async|await|promise|future|goroutine|tokio)|<-\s*chan\b|\bchan\s`)},
}

// DetectTags scans a declaration's body and signature with the fixed tag
// families. The ASYNC family covers both async-marker keywords in the body
// and future/promise-shaped return types in the signature. If no family
// matches, the node is tagged PURE.
func DetectTags(body, sig string) []Tag {
	var tags []Tag
	text := body + "\n" + sig

	for _, f := range tagFamilies {
		if f.re.MatchString(text) {
			tags = append(tags, f.tag)
		}
	}

	if len(tags) == 0 {
		return []Tag{TagPure}
	}
	return tags
}

// HasTag reports whether tags contains t.
func HasTag(tags []Tag, t Tag) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}
