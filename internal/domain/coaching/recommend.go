// Package coaching ranks detected errors and weak categories into
// recommendations, corrective exercises and coarse time estimates.
package coaching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/runform/internal/domain/model"
)

const (
	maxRecommendations = 5
	summaryTopItems    = 3
	notRequired        = "not required"
)

// Improvement time weighting.
const (
	criticalWeeks      = 6
	highWeeks          = 4
	perErrorWeeks      = 2
	experiencedScale   = 0.7
	inexperiencedScale = 1.3
)

type guidance struct {
	recommendation string
	expected       string
}

var guidanceByType = map[model.ErrorType]guidance{
	model.ErrorArmAsymmetry: {
		"Work on symmetric arm action. Use single-arm drills and focus on the weaker side.",
		"5-10% better symmetry in 2-3 weeks",
	},
	model.ErrorLegAsymmetry: {
		"Strengthen the weaker leg with single-leg exercises. Pay attention to balance and stability.",
		"5-8% better symmetry in 3-4 weeks",
	},
	model.ErrorKneeInstability: {
		"Work on knee joint stability with balance drills and strength work for the muscles around the knee.",
		"20-30% less variability in 4-6 weeks",
	},
	model.ErrorVerticalOscillation: {
		"Focus on moving forward rather than bouncing up. Take short, quick steps.",
		"15-25% less vertical oscillation in 2-4 weeks",
	},
	model.ErrorPoorTrunkPosture: {
		"Work on posture and trunk stability. Strengthen the core and watch your torso angle.",
		"10-15% better posture in 3-5 weeks",
	},
	model.ErrorOverstriding: {
		"Increase cadence and shorten the stride. Land under your center of mass.",
		"15-20% better technique in 3-4 weeks",
	},
	model.ErrorExcessivePronation: {
		"Strengthen the feet and ankles. Consider supportive footwear.",
		"10-15% improvement in 4-6 weeks",
	},
	model.ErrorInsufficientArmDrive: {
		"Increase arm swing amplitude. Keep elbows bent near 90 degrees and move the hands from hip to chest.",
		"15-20% better arm action in 2-3 weeks",
	},
}

var fallbackGuidance = guidance{
	"Work on overall running technique with a coach.",
	"Gradual improvement over 4-8 weeks",
}

// Recommend builds the recommendation plan for the given errors. level may
// be empty when the runner's classification is unknown.
func Recommend(errs []model.RunningError, level model.Level) model.RecommendationResult {
	if len(errs) == 0 {
		return maintainRecommendation()
	}

	sorted := SortErrors(errs)
	recs := make([]model.Recommendation, 0, maxRecommendations+1)
	for i, e := range sorted {
		if i == maxRecommendations {
			break
		}
		g, ok := guidanceByType[e.ErrorType]
		if !ok {
			g = fallbackGuidance
		}
		recs = append(recs, model.Recommendation{
			Priority:            i + 1,
			FocusArea:           e.ErrorName,
			Recommendation:      g.recommendation,
			Reason:              e.Description,
			ExpectedImprovement: g.expected,
		})
	}
	if len(sorted) > maxRecommendations {
		recs = append(recs, model.Recommendation{
			Priority:            maxRecommendations + 1,
			FocusArea:           "Overall technique",
			Recommendation:      "Work with a qualified running coach for a comprehensive technique overhaul.",
			Reason:              fmt.Sprintf("%d technique errors detected", len(sorted)),
			ExpectedImprovement: "Significant improvement in 2-3 months",
		})
	}

	types := make([]model.ErrorType, len(sorted))
	for i, e := range sorted {
		types[i] = e.ErrorType
	}
	exercises := ExercisesFor(types)

	return model.RecommendationResult{
		Recommendations:          recs,
		Exercises:                exercises,
		FocusAreas:               focusAreas(sorted),
		EstimatedImprovementTime: EstimateImprovementTime(sorted, level),
		Summary:                  recommendationSummary(recs, exercises),
	}
}

// SortErrors orders errors by severity, then by confidence, both descending.
func SortErrors(errs []model.RunningError) []model.RunningError {
	sorted := append([]model.RunningError(nil), errs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Severity.Rank(), sorted[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})
	return sorted
}

// EstimateImprovementTime buckets the expected training time for errs.
func EstimateImprovementTime(errs []model.RunningError, level model.Level) string {
	if len(errs) == 0 {
		return notRequired
	}
	var critical, high int
	for _, e := range errs {
		switch e.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityHigh:
			high++
		}
	}
	weeks := float64(critical*criticalWeeks + high*highWeeks + len(errs)*perErrorWeeks)
	switch level {
	case model.LevelElite, model.LevelAdvanced:
		weeks *= experiencedScale
	case model.LevelBeginner, model.LevelNeedsHelp:
		weeks *= inexperiencedScale
	}

	switch w := int(math.Ceil(weeks)); {
	case w <= 4:
		return "2-4 weeks with regular training"
	case w <= 8:
		return "1-2 months with regular training"
	case w <= 12:
		return "2-3 months with regular training"
	default:
		return "3-6 months with regular training and a coach"
	}
}

func focusAreas(errs []model.RunningError) []string {
	var areas []string
	add := func(area string) {
		for _, a := range areas {
			if a == area {
				return
			}
		}
		areas = append(areas, area)
	}
	for _, e := range errs {
		t := string(e.ErrorType)
		if strings.Contains(t, "ARM") {
			add("Arm mechanics")
		}
		if strings.Contains(t, "LEG") || strings.Contains(t, "KNEE") {
			add("Leg mechanics")
		}
		if strings.Contains(t, "TRUNK") {
			add("Core stability")
		}
		if e.ErrorType == model.ErrorVerticalOscillation {
			add("Horizontal propulsion")
		}
	}
	if areas == nil {
		areas = []string{}
	}
	return areas
}

func recommendationSummary(recs []model.Recommendation, exercises []model.Exercise) string {
	var b strings.Builder
	b.WriteString("Personal plan to improve running technique:\n\nPriority areas:\n")
	for i, r := range recs {
		if i == summaryTopItems {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", r.Priority, r.FocusArea)
	}
	fmt.Fprintf(&b, "\nRecommended exercises: %d\n", len(exercises))
	for i, ex := range exercises {
		if i == summaryTopItems {
			break
		}
		fmt.Fprintf(&b, "- %s (%s)\n", ex.Name, ex.Frequency)
	}
	b.WriteString("\nWith regular training the first results show within 2-3 weeks.")
	return b.String()
}

func maintainRecommendation() model.RecommendationResult {
	return model.RecommendationResult{
		Recommendations: []model.Recommendation{{
			Priority:            1,
			FocusArea:           "Maintain current form",
			Recommendation:      "Keep your current training routine.",
			Reason:              "Your running technique is at a high level.",
			ExpectedImprovement: "Maintain the current level",
		}},
		Exercises:                []model.Exercise{},
		FocusAreas:               []string{"Maintain technique"},
		EstimatedImprovementTime: notRequired,
		Summary:                  "Running technique is excellent. Keep it up!",
	}
}
