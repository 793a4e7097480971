package verify

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// suffixTokens are generic trailing tokens that carry no identity
// information. Stripped repeatedly so "xxofficialchannel" reduces to
// "xx". Includes the Chinese equivalents used on bilibili.
var suffixTokens = []string{"official", "channel", "频道", "官方"}

// NormalizeName lowercases a display name, removes separator
// characters (underscores, hyphens, internal whitespace) and strips
// generic suffix tokens.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	for changed := true; changed; {
		changed = false
		for _, token := range suffixTokens {
			if trimmed := strings.TrimSuffix(s, token); trimmed != s {
				s = trimmed
				changed = true
			}
		}
	}
	return s
}

// Similarity computes 1 - editDistance/maxLen over runes using classic
// Levenshtein distance. Two empty strings are identical (1.0); exactly
// one empty string shares nothing (0.0).
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	if la == 0 || lb == 0 {
		return 0.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(max(la, lb))
}

// NameSimilarity is Similarity over normalized display names.
func NameSimilarity(a, b string) float64 {
	return Similarity(NormalizeName(a), NormalizeName(b))
}
