package graph

// Draft is a raw declaration record produced by a language walker before
// normalization. Kind, FQName, and Sig are required; everything else is
// optional and defaulted by Normalize.
type Draft struct {
	Kind       NodeKind
	FQName     string
	Sig        string
	Short      string
	Complexity int
	Tags       []Tag
	Unresolved bool
	File       string
	StartLine  int
	EndLine    int
}

// Normalize assembles a Draft into a complete CodeNode. This is the single
// point where identity and derived numeric fields are made consistent:
// walkers never compute IDs or token estimates themselves, and a token
// estimate supplied on the draft is ignored.
func Normalize(d Draft) CodeNode {
	n := CodeNode{
		Kind:       d.Kind,
		FQName:     d.FQName,
		Sig:        d.Sig,
		Short:      d.Short,
		Complexity: d.Complexity,
		Tags:       d.Tags,
		Unresolved: d.Unresolved,
		File:       d.File,
		StartLine:  d.StartLine,
		EndLine:    d.EndLine,
	}

	if d.Kind == NodeKindFile {
		n.ID = FileID(d.FQName)
	} else {
		n.ID = NodeID(d.FQName, d.Sig)
	}

	if n.Kind.Executable() {
		if n.Complexity < 1 {
			n.Complexity = 1
		}
	} else {
		n.Complexity = 0
	}

	n.TokensEst = EstimateTokens(n.Short) + EstimateTokens(n.Sig)
	return n
}
