package preset

import (
	"strings"

	"github.com/verte-zerg/barkeep/internal/tablet"
)

// Score weights. Express keys dominate because they are the main
// differentiator between presets; pen buttons tend to repeat across presets.
const (
	modeWeight    = 0.3
	expressWeight = 0.5
	penWeight     = 0.2
)

// matchThreshold is the score below which name-based fallback matching kicks in.
const matchThreshold = 0.5

// Matcher scores presets against live settings.
type Matcher struct {
	lib *Library
}

// NewMatcher builds a Matcher over a preset library.
func NewMatcher(lib *Library) *Matcher {
	return &Matcher{lib: lib}
}

// Score computes a normalized 0-1 match between current settings and a
// preset. Dimensions absent on both sides are excluded from normalization,
// so empty binding sets never penalize a preset.
func (m *Matcher) Score(settings *tablet.Settings, name string) float64 {
	p := m.lib.Load(name)
	if p == nil {
		return 0
	}

	score, total := 0.0, 0.0

	if p.OutputModePath != "" && settings.OutputModePath != "" {
		total += modeWeight
		if p.OutputModePath == settings.OutputModePath {
			score += modeWeight
		}
	}

	curExpress := settings.ExpressKeySet()
	preExpress := p.ExpressKeySet()
	if len(curExpress) > 0 || len(preExpress) > 0 {
		total += expressWeight
		score += expressWeight * jaccard(curExpress, preExpress)
	}

	curPen := settings.PenButtonSet()
	prePen := p.PenButtonSet()
	if len(curPen) > 0 || len(prePen) > 0 {
		total += penWeight
		score += penWeight * jaccard(curPen, prePen)
	}

	if total == 0 {
		return 0
	}
	return score / total
}

// Match picks the preset best matching the settings. Ties keep the first
// candidate. A best score below the threshold falls back to name matching
// against the output mode; the result is never empty for a non-empty list.
func (m *Matcher) Match(settings *tablet.Settings, names []string) string {
	if len(names) == 0 {
		return ""
	}

	best := names[0]
	bestScore := 0.0
	for _, name := range names {
		if score := m.Score(settings, name); score > bestScore {
			bestScore = score
			best = name
		}
	}

	if bestScore < matchThreshold && settings.OutputMode != "" {
		modeLower := strings.ToLower(settings.OutputMode)
		for _, name := range names {
			if strings.Contains(modeLower, strings.ToLower(name)) {
				return name
			}
		}
		for _, name := range names {
			nameLower := strings.ToLower(name)
			switch {
			case strings.Contains(modeLower, "artist") && strings.Contains(nameLower, "artist"),
				strings.Contains(modeLower, "absolute") && strings.Contains(nameLower, "abs"),
				strings.Contains(modeLower, "relative") && strings.Contains(nameLower, "rel"):
				return name
			}
		}
	}

	return best
}

// jaccard returns |a∩b| / |a∪b|, treating two empty sets as a perfect match.
func jaccard(a, b map[string]struct{}) float64 {
	union := len(b)
	overlap := 0
	for k := range a {
		if _, ok := b[k]; ok {
			overlap++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(overlap) / float64(union)
}
