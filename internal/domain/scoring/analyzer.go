// Package scoring turns run statistics into category scores, a composite
// score and a runner classification.
package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/normalize"
	"github.com/okian/runform/internal/domain/norms"
)

const scoreDecimals = 1

// Analyzer runs the six category scorers and the composite classifier.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	norms norms.Table
	now   func() time.Time
}

// NewAnalyzer creates an Analyzer with the default reference table.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		norms: norms.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze validates the input and produces a full analysis.
func (a *Analyzer) Analyze(in model.RunBiomechanicsInput) (model.RunAnalysisResult, error) {
	if err := in.Validate(); err != nil {
		return model.RunAnalysisResult{}, err
	}

	details := model.AnalysisDetails{
		Arm:         ArmQuality(in.LeftArm, in.RightArm, a.norms),
		Leg:         LegQuality(in.LeftLeg, in.RightLeg, a.norms),
		Trunk:       TrunkStability(in.Trunk, in.Head, a.norms),
		Symmetry:    Symmetry(in, a.norms),
		Efficiency:  Efficiency(in),
		Consistency: Consistency(in),
	}
	scores := model.CategoryScores{
		ArmQuality:     normalize.Round(details.Arm.Index, scoreDecimals),
		LegQuality:     normalize.Round(details.Leg.Index, scoreDecimals),
		TrunkStability: normalize.Round(details.Trunk.Score, scoreDecimals),
		Symmetry:       normalize.Round(details.Symmetry.Score, scoreDecimals),
		Efficiency:     normalize.Round(details.Efficiency.Score, scoreDecimals),
		Consistency:    normalize.Round(details.Consistency.Score, scoreDecimals),
	}
	composite := Composite(scores, a.norms.Weights)

	result := model.RunAnalysisResult{
		CompositeScore: composite,
		CategoryScores: scores,
		Classification: Classify(composite, a.norms.Classification),
		Timestamp:      a.now().UTC(),
		Details:        details,
	}
	if in.HasBodyMetrics() {
		bmi := normalize.Round(normalize.BMI(*in.WeightKg, *in.HeightCm), scoreDecimals)
		result.BMI = &bmi
		result.WeightCategory = norms.WeightCategory(bmi)
	}
	if in.HeightCm != nil {
		cadence := norms.RecommendedCadence(*in.HeightCm)
		result.RecommendedCadence = &cadence
	}
	result.Summary = Summarize(result)
	return result, nil
}

// AnalyzeSimple expands a means-only input and analyzes it.
func (a *Analyzer) AnalyzeSimple(in model.SimpleInput) (model.RunAnalysisResult, error) {
	if err := in.Validate(); err != nil {
		return model.RunAnalysisResult{}, err
	}
	return a.Analyze(in.Expand())
}

// Composite is the weighted sum of the category scores, rounded to one
// decimal.
func Composite(s model.CategoryScores, w norms.Weights) float64 {
	total := s.ArmQuality*w.ArmQuality +
		s.LegQuality*w.LegQuality +
		s.TrunkStability*w.TrunkStability +
		s.Symmetry*w.Symmetry +
		s.Efficiency*w.Efficiency +
		s.Consistency*w.Consistency
	return normalize.Round(total, scoreDecimals)
}

// Classify maps a composite score onto a runner level, top-down.
func Classify(score float64, c norms.Classification) model.Level {
	switch {
	case score >= c.Elite:
		return model.LevelElite
	case score >= c.Advanced:
		return model.LevelAdvanced
	case score >= c.Intermediate:
		return model.LevelIntermediate
	case score >= c.Beginner:
		return model.LevelBeginner
	default:
		return model.LevelNeedsHelp
	}
}

// RankCategories orders categories from strongest to weakest. Ties keep
// reporting order.
func RankCategories(s model.CategoryScores) []model.Category {
	ranked := append([]model.Category(nil), model.Categories...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return s.Get(ranked[i]) > s.Get(ranked[j])
	})
	return ranked
}

// Summarize renders the fixed English summary of an analysis.
func Summarize(r model.RunAnalysisResult) string {
	ranked := RankCategories(r.CategoryScores)
	strongest, weakest := ranked[0], ranked[len(ranked)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s level. Composite score: %.1f/100.\n\n", levelTitle(r.Classification), r.CompositeScore)
	if r.BMI != nil {
		fmt.Fprintf(&b, "Body metrics:\n- BMI: %.1f (%s)\n", *r.BMI, r.WeightCategory)
		if r.RecommendedCadence != nil {
			fmt.Fprintf(&b, "- Recommended cadence: %d steps/min\n", *r.RecommendedCadence)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Strengths:\n- %s: %.1f/100\n", strongest.DisplayName(), r.CategoryScores.Get(strongest))
	fmt.Fprintf(&b, "\nAreas to improve:\n- %s: %.1f/100\n", weakest.DisplayName(), r.CategoryScores.Get(weakest))
	b.WriteString("\n")
	b.WriteString(levelMessage(r.Classification))
	return b.String()
}

func levelTitle(l model.Level) string {
	switch l {
	case model.LevelElite:
		return "Elite"
	case model.LevelAdvanced:
		return "Advanced"
	case model.LevelIntermediate:
		return "Intermediate"
	case model.LevelBeginner:
		return "Beginner"
	default:
		return "Needs-help"
	}
}

func levelMessage(l model.Level) string {
	switch l {
	case model.LevelElite:
		return "Excellent running technique. Keep maintaining this level."
	case model.LevelAdvanced:
		return "Good running technique with some room for improvement."
	case model.LevelIntermediate:
		return "Moderate running technique. Work on the weaknesses identified above."
	case model.LevelBeginner:
		return "Basic running technique with significant potential for improvement."
	default:
		return "Running technique needs substantial correction. Working with a coach is recommended."
	}
}
