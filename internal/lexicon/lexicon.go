// Package lexicon maps free-text citizen requests to public-works sectors
// using a configurable keyword lexicon.
package lexicon

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// SectorOthers is the fallback sector when no lexicon phrase matches.
const SectorOthers = "others"

// Entry holds one sector and its trigger phrases. Declaration order matters:
// earlier sectors win ties.
type Entry struct {
	Sector  string   `yaml:"sector"`
	Phrases []string `yaml:"phrases"`
}

// Lexicon is an ordered set of sector entries.
type Lexicon struct {
	Entries []Entry `yaml:"sectors"`
}

// Default returns the built-in lexicon covering the standard public-works
// sectors.
func Default() Lexicon {
	return Lexicon{Entries: []Entry{
		{Sector: "infrastructure", Phrases: []string{"road", "bridge", "water supply", "electricity"}},
		{Sector: "education", Phrases: []string{"school", "library", "college", "university"}},
		{Sector: "healthcare", Phrases: []string{"hospital", "clinic", "ambulance", "health center"}},
		{Sector: "public welfare", Phrases: []string{"park", "community hall", "waste management"}},
	}}
}

// Load reads a lexicon from a YAML file.
func Load(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("failed to parse lexicon file: %w", err)
	}

	if err := lex.Validate(); err != nil {
		return Lexicon{}, err
	}

	return lex, nil
}

// Validate ensures the lexicon is usable.
func (l Lexicon) Validate() error {
	if len(l.Entries) == 0 {
		return fmt.Errorf("lexicon has no sectors")
	}
	for i, e := range l.Entries {
		if e.Sector == "" {
			return fmt.Errorf("sector name missing at index %d", i)
		}
		if len(e.Phrases) == 0 {
			return fmt.Errorf("sector %q has no phrases", e.Sector)
		}
		for _, p := range e.Phrases {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("sector %q has an empty phrase", e.Sector)
			}
		}
	}
	return nil
}

// Matcher classifies free text against a fixed lexicon. It is pure and safe
// for concurrent use.
type Matcher struct {
	entries []compiledEntry
}

type compiledEntry struct {
	sector  string
	phrases []compiledPhrase
}

type compiledPhrase struct {
	canonical string // The lexicon's declared form, returned on match
	tokens    []string
	order     int // Declaration position within the sector
}

// NewMatcher compiles the lexicon for matching. Phrases within a sector are
// ordered longest-first so the most specific phrase wins; declaration order
// breaks remaining ties.
func NewMatcher(lex Lexicon) *Matcher {
	m := &Matcher{entries: make([]compiledEntry, 0, len(lex.Entries))}
	for _, e := range lex.Entries {
		ce := compiledEntry{sector: e.Sector}
		for i, p := range e.Phrases {
			ce.phrases = append(ce.phrases, compiledPhrase{
				canonical: strings.ToLower(strings.TrimSpace(p)),
				tokens:    tokenize(p),
				order:     i,
			})
		}
		sortPhrases(ce.phrases)
		m.entries = append(m.entries, ce)
	}
	return m
}

// Classify maps text to (matched phrase, sector). The first sector in
// declaration order containing a matching phrase wins. A false ok means no
// sector-worthy project was detected and the submission is not actionable;
// the sector returned in that case is SectorOthers.
func (m *Matcher) Classify(text string) (phrase, sector string, ok bool) {
	words := tokenize(text)
	if len(words) == 0 {
		return "", SectorOthers, false
	}

	for _, entry := range m.entries {
		for _, p := range entry.phrases {
			if containsPhrase(words, p.tokens) {
				return p.canonical, entry.sector, true
			}
		}
	}

	return "", SectorOthers, false
}

// sortPhrases orders longest (by token count, then length) first, keeping
// declaration order for equal lengths. The tie-break must be deterministic
// for a fixed lexicon.
func sortPhrases(phrases []compiledPhrase) {
	for i := 1; i < len(phrases); i++ {
		for j := i; j > 0 && morePhrase(phrases[j], phrases[j-1]); j-- {
			phrases[j], phrases[j-1] = phrases[j-1], phrases[j]
		}
	}
}

func morePhrase(a, b compiledPhrase) bool {
	if len(a.tokens) != len(b.tokens) {
		return len(a.tokens) > len(b.tokens)
	}
	if len(a.canonical) != len(b.canonical) {
		return len(a.canonical) > len(b.canonical)
	}
	return a.order < b.order
}

// containsPhrase reports whether the phrase tokens appear as a contiguous
// run within words, allowing simple plural surface forms.
func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}

	for start := 0; start+len(phrase) <= len(words); start++ {
		match := true
		for i, want := range phrase {
			if !tokenMatches(words[start+i], want) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// tokenMatches compares a surface token against a lexicon token, folding
// trailing plural suffixes to the lexicon's base form.
func tokenMatches(surface, base string) bool {
	if surface == base {
		return true
	}
	if strings.TrimSuffix(surface, "s") == base {
		return true
	}
	return strings.TrimSuffix(surface, "es") == base
}

// tokenize case-folds and splits text into alphanumeric words.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
