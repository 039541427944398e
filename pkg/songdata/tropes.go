package songdata

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// tropePatterns maps each word-based trope to the lyric fragments that imply
// it. Matching is case-insensitive substring matching over the whole text.
var tropePatterns = map[string][]string{
	"fight":     {"fight"},
	"victory":   {"victory", "victorious", "victors"},
	"win_won":   {"win", "won"},
	"rah":       {"rah"},
	"nonsense":  {"boom", "bah", "hoo", "wow", "hullabaloo", "oskee"},
	"colors":    {"crimson", "scarlet", "maroon", "gold", "blue", "red", "orange", "green", "purple"},
	"men":       {"men", "boys", "sons"},
	"opponents": {"beat ", "rival", "foe", "goodbye to", "bow down"},
}

// TropeScanner derives the boolean trope flags of a record from its raw
// lyrics. Records shipped with precomputed flags never go through it.
type TropeScanner struct {
	matcher *ahocorasick.Matcher
	tropes  []string // parallel to the matcher's pattern list
}

func NewTropeScanner() *TropeScanner {
	var patterns []string
	var tropes []string
	for _, trope := range Tropes {
		for _, p := range tropePatterns[trope] {
			patterns = append(patterns, p)
			tropes = append(tropes, trope)
		}
	}
	return &TropeScanner{
		matcher: ahocorasick.NewStringMatcher(patterns),
		tropes:  tropes,
	}
}

// Scan returns the set of tropes present in the given lyrics.
func (t *TropeScanner) Scan(lyrics string) map[string]bool {
	found := make(map[string]bool)
	lower := strings.ToLower(lyrics)
	for _, hit := range t.matcher.Match([]byte(lower)) {
		found[t.tropes[hit]] = true
	}
	if hasSpelledWord(lower) {
		found["spelling"] = true
	}
	return found
}

// Apply fills the record's flags and trope count from its lyrics.
func (t *TropeScanner) Apply(s *School) {
	found := t.Scan(s.Lyrics)
	s.Fight = found["fight"]
	s.Victory = found["victory"]
	s.WinWon = found["win_won"]
	s.Rah = found["rah"]
	s.Nonsense = found["nonsense"]
	s.Colors = found["colors"]
	s.Men = found["men"]
	s.Opponents = found["opponents"]
	s.Spelling = found["spelling"]
	s.TropeCount = len(found)
}

// hasSpelledWord reports whether the text spells a word out letter by letter
// ("m-i-n-n-e-s-o-t-a"): a run of at least three single letters joined by
// hyphens.
func hasSpelledWord(text string) bool {
	run := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' &&
			(i == 0 || !isLetter(text[i-1])) &&
			(i+1 >= len(text) || !isLetter(text[i+1])) {
			// single letter; extend the run if a hyphen follows
			run++
			if run >= 3 {
				return true
			}
			if i+1 < len(text) && text[i+1] == '-' {
				continue
			}
		}
		if c != '-' {
			run = 0
		}
	}
	return false
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }
