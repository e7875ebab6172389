package assessment

import "strings"

// Level is the four-step deterioration scale.
type Level string

const (
	LevelStable   Level = "stable"
	LevelMild     Level = "mild"
	LevelModerate Level = "moderate"
	LevelSevere   Level = "severe"
)

// ClassifyLevel maps a mean global score and a deterioration flag to a level.
// This threshold table is the single authority for severity; the advisory
// table embedded in the model prompt is context for the model only.
func ClassifyLevel(meanScore float64, deteriorated bool) Level {
	if !deteriorated || meanScore >= 80 {
		return LevelStable
	}
	if meanScore >= 70 {
		return LevelMild
	}
	if meanScore >= 50 {
		return LevelModerate
	}
	return LevelSevere
}

// MajorityDeteriorated reports whether strictly more than half of the
// questions in a batch flagged deterioration.
func MajorityDeteriorated(flagged, total int) bool {
	if total <= 0 {
		return false
	}
	return flagged > total/2
}

// NormalizeLevel maps a wire-level change value from the external service to
// a Level. The service answers in Spanish per the prompt contract; English
// values are accepted too. Unknown or empty values normalize to stable.
func NormalizeLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "estable", "stable":
		return LevelStable
	case "leve", "mild":
		return LevelMild
	case "moderado", "moderate":
		return LevelModerate
	case "severo", "severe":
		return LevelSevere
	default:
		return LevelStable
	}
}
