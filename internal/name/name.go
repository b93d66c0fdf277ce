// Package name resolves free-text player name spellings to one canonical
// identity per player. Both sources are uncoordinated: the article source
// abbreviates ("Mbappé", "Vinicius Jr."), FotMob returns full accented
// names ("Kylian Mbappe", "Vinícius Júnior"). The curated tables map every
// observed variant to a single canonical form.
package name

import (
	"regexp"
	"strings"
)

// Sentinel is the reserved canonical value for coaching staff captured by
// the rating pattern. Entries resolving to it are excluded from all
// player-level statistics.
const Sentinel = "_COACH_"

// Tables holds the two-tier lookup data. Aliases maps short forms and
// surnames; FullNames maps full-name spelling variants (typically the
// diacritic-bearing forms FotMob returns). Aliases always wins.
type Tables struct {
	Aliases   map[string]string `json:"aliases"`
	FullNames map[string]string `json:"full_names"`
}

// Normalizer resolves raw spellings against immutable lookup tables.
// Construct with New; the zero value resolves nothing but never fails.
type Normalizer struct {
	tables Tables
}

// New creates a Normalizer over the given tables. The tables are not
// copied; callers must not mutate them afterwards.
func New(tables Tables) *Normalizer {
	return &Normalizer{tables: tables}
}

// substitutionRe strips inline substitution annotations the rating regex
// drags along with the name ("Courtois, remplacé à la 80e").
var substitutionRe = regexp.MustCompile(`(?i),?\s*(?:remplacé|entré en jeu|entré|sorti|exclu)[^(,]*?(\s*\(|\s*$)`)

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize maps a raw spelling to its canonical form, or Sentinel for
// known non-player entries. Resolution order:
//
//  1. exact match in Aliases
//  2. surname (last whitespace-delimited token) in Aliases
//  3. exact match in FullNames
//  4. surname in FullNames
//  5. the cleaned input unchanged
//
// Never fails: unknown spellings become their own canonical form, so new
// players flow through until a variant is added to the tables. Unmerged
// duplicates are preferred over wrongly merged players.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := substitutionRe.ReplaceAllString(raw, "$1")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), ",")
	cleaned = spaceRe.ReplaceAllString(strings.TrimSpace(cleaned), " ")

	if canonical, ok := n.tables.Aliases[cleaned]; ok {
		return canonical
	}

	surname := cleaned
	if i := strings.LastIndex(cleaned, " "); i >= 0 {
		surname = cleaned[i+1:]
	}
	if canonical, ok := n.tables.Aliases[surname]; ok {
		return canonical
	}

	if canonical, ok := n.tables.FullNames[cleaned]; ok {
		return canonical
	}
	if canonical, ok := n.tables.FullNames[surname]; ok {
		return canonical
	}

	return cleaned
}

// IsSentinel reports whether canonical is the coach marker.
func IsSentinel(canonical string) bool {
	return canonical == Sentinel
}
