package scoring

import (
	"fmt"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/normalize"
)

const (
	keyImprovementPoints = 5.0
	focusScoreBound      = 70.0
)

// Compare contrasts two analyses of the same runner. Both results are
// supplied by the caller; nothing is stored between calls.
func Compare(before, after model.RunAnalysisResult) model.ComparisonResult {
	r := model.ComparisonResult{
		ClassificationChange: model.ClassificationChange{
			From:     before.Classification,
			To:       after.Classification,
			Improved: after.Classification.Rank() > before.Classification.Rank(),
		},
		KeyImprovements: []string{},
		AreasToFocus:    []string{},
	}
	if before.CompositeScore != 0 {
		r.ImprovementPercentage = normalize.Round(
			(after.CompositeScore-before.CompositeScore)/before.CompositeScore*100, scoreDecimals)
	}

	deltas := make(map[model.Category]float64, len(model.Categories))
	for _, c := range model.Categories {
		d := normalize.Round(after.CategoryScores.Get(c)-before.CategoryScores.Get(c), scoreDecimals)
		deltas[c] = d
		switch {
		case d >= keyImprovementPoints:
			r.KeyImprovements = append(r.KeyImprovements,
				fmt.Sprintf("%s improved by %.1f points", c.DisplayName(), d))
		case d < 0:
			r.AreasToFocus = append(r.AreasToFocus,
				fmt.Sprintf("%s dropped by %.1f points", c.DisplayName(), -d))
		case after.CategoryScores.Get(c) < focusScoreBound:
			r.AreasToFocus = append(r.AreasToFocus,
				fmt.Sprintf("%s is still below %.0f (%.1f/100)", c.DisplayName(), focusScoreBound, after.CategoryScores.Get(c)))
		}
	}
	r.CategoryChanges = model.CategoryScores{
		ArmQuality:     deltas[model.CategoryArmQuality],
		LegQuality:     deltas[model.CategoryLegQuality],
		TrunkStability: deltas[model.CategoryTrunkStability],
		Symmetry:       deltas[model.CategorySymmetry],
		Efficiency:     deltas[model.CategoryEfficiency],
		Consistency:    deltas[model.CategoryConsistency],
	}

	r.Summary = fmt.Sprintf("Composite score moved from %.1f to %.1f (%+.1f%%). Level: %s -> %s.",
		before.CompositeScore, after.CompositeScore, r.ImprovementPercentage, before.Classification, after.Classification)
	switch {
	case r.ClassificationChange.Improved:
		r.Summary += " The runner moved up a level."
	case after.Classification.Rank() < before.Classification.Rank():
		r.Summary += " The runner dropped a level."
	}
	return r
}
