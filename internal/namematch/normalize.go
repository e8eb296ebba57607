// internal/namematch/normalize.go
package namematch

import (
	"strings"

	"peergrade/internal/common"
)

// Clean normalizes an entered name for display: whitespace collapsed,
// each word title-cased ("  aLEX   chen " -> "Alex Chen").
func Clean(name string) string {
	return common.TitleCase(common.CollapseSpaces(name))
}

// Fold returns the case-folded key form used for lookups and distances.
func Fold(name string) string {
	return strings.ToLower(common.CollapseSpaces(name))
}

// AliasKey is the stored key for remembered aliases: the folded form of
// the entered name.
func AliasKey(entered string) string { return Fold(entered) }

// commaFlip converts "Last, First" to "First Last"; empty when there is
// no comma to flip on.
func commaFlip(name string) string {
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return ""
	}
	return common.CollapseSpaces(first + " " + last)
}

// tokenFlip moves the leading word to the end, turning a surname-first
// entry ("Nguyen Thi Minh") into display order ("Thi Minh Nguyen").
func tokenFlip(name string) string {
	f := strings.Fields(name)
	if len(f) < 2 {
		return ""
	}
	return strings.Join(append(f[1:], f[0]), " ")
}

// variantKeys lists the folded lookup keys an entered name may appear
// under: as written, comma-flipped, and token-flipped.
func variantKeys(entered string) []string {
	keys := []string{Fold(entered)}
	if c := commaFlip(entered); c != "" {
		keys = append(keys, Fold(c))
	} else if f := tokenFlip(entered); f != "" {
		keys = append(keys, Fold(f))
	}
	return common.UniqueStrings(keys)
}
