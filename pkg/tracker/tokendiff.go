package tracker

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// TokenDiff is a word-level diff entry between two whitespace-tokenized
// strings: (type, old token run, new token run, offset/length within the
// old string's token stream). Supplements ChangeTracker's byte-level spans
// with a coarser, human-readable diff for analysers that want to show
// "changed words".
type TokenDiff struct {
	Type     string // "insert", "delete", "replace"
	OldToken string
	NewToken string
	Offset   int
	Length   int
}

// TokenLevelDiff tokenizes both strings on whitespace and runs a
// SequenceMatcher over the token lists. github.com/pmezard/go-difflib is
// a direct port of Python's difflib, so its SequenceMatcher/OpCode shape
// matches difflib.SequenceMatcher.get_opcodes() exactly.
func TokenLevelDiff(text1, text2 string) []TokenDiff {
	tokens1 := strings.Fields(text1)
	tokens2 := strings.Fields(text2)

	matcher := difflib.NewMatcher(tokens1, tokens2)

	var out []TokenDiff
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}

		offset := 0
		if op.I1 != 0 {
			offset = len(strings.Join(tokens1[:op.I1], " ")) + 1
		}

		out = append(out, TokenDiff{
			Type:     opCodeName(op.Tag),
			OldToken: strings.Join(tokens1[op.I1:op.I2], " "),
			NewToken: strings.Join(tokens2[op.J1:op.J2], " "),
			Offset:   offset,
			Length:   len(strings.Join(tokens1[op.I1:op.I2], " ")),
		})
	}
	return out
}

func opCodeName(tag byte) string {
	switch tag {
	case 'r':
		return "replace"
	case 'd':
		return "delete"
	case 'i':
		return "insert"
	default:
		return "equal"
	}
}
