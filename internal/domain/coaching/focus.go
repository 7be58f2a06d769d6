package coaching

import (
	"fmt"
	"sort"

	"github.com/okian/runform/internal/domain/model"
)

const (
	maxPriorities      = 5
	weakCategoryBound  = 85.0
	excellentComposite = 90.0
	goodComposite      = 75.0
)

var focusAreaNames = map[model.Category]string{
	model.CategoryArmQuality:     "Arm mechanics",
	model.CategoryLegQuality:     "Leg technique",
	model.CategoryTrunkStability: "Upright posture",
	model.CategorySymmetry:       "Left/right balance",
	model.CategoryEfficiency:     "Running economy",
	model.CategoryConsistency:    "Movement consistency",
}

var focusActions = map[model.Category]string{
	model.CategoryArmQuality:     "arm action",
	model.CategoryLegQuality:     "leg technique",
	model.CategoryTrunkStability: "an upright back",
	model.CategorySymmetry:       "left/right balance",
	model.CategoryEfficiency:     "running economy",
	model.CategoryConsistency:    "movement consistency",
}

var weakestTips = map[model.Category]string{
	model.CategoryConsistency:    "Aim to make every step the same. Consistency is the key to speed.",
	model.CategoryEfficiency:     "Learn to run lighter: less effort, more speed.",
	model.CategorySymmetry:       "Even out the work of your left and right sides so running feels easier.",
	model.CategoryTrunkStability: "Strengthen your abs and back. They are the base of good technique.",
}

// Focus ranks weak categories and urgent errors into at most five
// priorities, with plain-language tips and a time estimate.
func Focus(errs []model.RunningError, analysis model.RunAnalysisResult) model.FocusAreasResult {
	if len(errs) == 0 {
		return maintainFocus()
	}

	weak := WeakCategories(analysis.CategoryScores)
	priorities := make([]model.FocusPriority, 0, len(weak)+len(errs))
	for _, c := range weak {
		score := analysis.CategoryScores.Get(c)
		priorities = append(priorities, model.FocusPriority{
			Area:     focusAreaNames[c],
			Priority: len(priorities) + 1,
			Score:    &score,
			Reason:   fmt.Sprintf("Score %.1f/100 needs improvement", score),
			Action:   "Work on improving " + focusActions[c],
		})
	}
	for _, e := range errs {
		if e.Severity != model.SeverityCritical && e.Severity != model.SeverityHigh {
			continue
		}
		priorities = append(priorities, model.FocusPriority{
			Area:     e.ErrorName,
			Priority: len(priorities) + 1,
			Reason:   fmt.Sprintf("%s error: %s", e.Severity, e.Description),
			Action:   "Needs immediate correction",
		})
	}
	if len(priorities) > maxPriorities {
		priorities = priorities[:maxPriorities]
	}

	tips := []string{"Do the corrective exercises 3-4 times a week. You will see results within a month."}
	if len(weak) > 0 {
		if tip, ok := weakestTips[weak[0]]; ok {
			tips = append(tips, tip)
		}
	}
	if analysis.CompositeScore >= excellentComposite {
		tips = append(tips, "Your technique is excellent. Keep it up!")
	} else {
		tips = append(tips, "Think about technique in every session, not only about speed.")
	}

	return model.FocusAreasResult{
		Priorities:           priorities,
		Tips:                 tips,
		EstimatedImprovement: focusTime(analysis.CompositeScore),
	}
}

// WeakCategories lists categories scoring below 85, weakest first. Ties
// keep reporting order.
func WeakCategories(s model.CategoryScores) []model.Category {
	var weak []model.Category
	for _, c := range model.Categories {
		if s.Get(c) < weakCategoryBound {
			weak = append(weak, c)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return s.Get(weak[i]) < s.Get(weak[j])
	})
	return weak
}

func focusTime(composite float64) string {
	switch {
	case composite >= excellentComposite:
		return "1-2 months"
	case composite >= goodComposite:
		return "2-3 months"
	default:
		return "3-6 months"
	}
}

func maintainFocus() model.FocusAreasResult {
	return model.FocusAreasResult{
		Priorities: []model.FocusPriority{{
			Area:     "Maintain current form",
			Priority: 1,
			Reason:   "No technique errors detected",
			Action:   "Keep the current training routine",
		}},
		Tips:                 []string{"Your technique is solid. Keep training consistently."},
		EstimatedImprovement: notRequired,
	}
}
