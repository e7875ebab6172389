package assessment

import (
	"fmt"
	"strings"
)

// GeneralObservations renders the deterministic assessment summary: question
// count, mean score, how many questions were flagged, and the best and worst
// performing questions. When scores tie, the earliest question in submission
// order wins for both extremes.
func GeneralObservations(results []QuestionOutcome, meanScore float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessment completed with %d questions.\n", len(results))
	fmt.Fprintf(&b, "Mean global score: %.2f/100\n", meanScore)

	flagged := 0
	for _, r := range results {
		if r.DeteriorationDetected {
			flagged++
		}
	}
	if flagged > 0 {
		fmt.Fprintf(&b, "Deterioration detected in %d of %d questions.\n", flagged, len(results))
	}

	if len(results) > 0 {
		best, worst := 0, 0
		for i, r := range results {
			if r.GlobalScore > results[best].GlobalScore {
				best = i
			}
			if r.GlobalScore < results[worst].GlobalScore {
				worst = i
			}
		}
		fmt.Fprintf(&b, "Best performance: question %s (%.2f)\n", results[best].PictureID, results[best].GlobalScore)
		fmt.Fprintf(&b, "Most difficulty: question %s (%.2f)\n", results[worst].PictureID, results[worst].GlobalScore)
	}

	return b.String()
}

// Recommendations renders the fixed recommendation block for a severity
// level.
func Recommendations(level Level) string {
	var b strings.Builder
	switch level {
	case LevelStable:
		b.WriteString("Cognitive function is stable.\n")
		b.WriteString("- Continue with periodic follow-up assessments.\n")
		b.WriteString("- Maintain cognitive stimulation activities.\n")
	case LevelMild:
		b.WriteString("Mild cognitive deterioration detected.\n")
		b.WriteString("- Recommend consultation with a neurologist.\n")
		b.WriteString("- Increase assessment frequency to monthly.\n")
		b.WriteString("- Begin cognitive stimulation therapy.\n")
	case LevelModerate:
		b.WriteString("Moderate cognitive deterioration detected.\n")
		b.WriteString("- URGENT: referral to a neurology specialist.\n")
		b.WriteString("- Full neuropsychological evaluation recommended.\n")
		b.WriteString("- Consider brain imaging studies.\n")
		b.WriteString("- Begin a therapeutic intervention plan.\n")
	case LevelSevere:
		b.WriteString("Severe cognitive deterioration detected.\n")
		b.WriteString("- URGENT: immediate neurological consultation.\n")
		b.WriteString("- Evaluate for a possible dementia diagnosis.\n")
		b.WriteString("- Consider complementary studies (CT/MRI).\n")
		b.WriteString("- Assess capacity for daily living activities.\n")
		b.WriteString("- Support for family and caregivers.\n")
	}
	return b.String()
}
