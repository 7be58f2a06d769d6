package model

import (
	"strconv"
	"time"
)

// CategoryScores holds the six 0-100 category scores.
type CategoryScores struct {
	ArmQuality     float64 `json:"arm_quality" yaml:"arm_quality"`
	LegQuality     float64 `json:"leg_quality" yaml:"leg_quality"`
	TrunkStability float64 `json:"trunk_stability" yaml:"trunk_stability"`
	Symmetry       float64 `json:"symmetry" yaml:"symmetry"`
	Efficiency     float64 `json:"efficiency" yaml:"efficiency"`
	Consistency    float64 `json:"consistency" yaml:"consistency"`
}

// Get returns the score of category c.
func (s CategoryScores) Get(c Category) float64 {
	switch c {
	case CategoryArmQuality:
		return s.ArmQuality
	case CategoryLegQuality:
		return s.LegQuality
	case CategoryTrunkStability:
		return s.TrunkStability
	case CategorySymmetry:
		return s.Symmetry
	case CategoryEfficiency:
		return s.Efficiency
	case CategoryConsistency:
		return s.Consistency
	default:
		return 0
	}
}

// RunAnalysisResult is the output of a full run analysis.
type RunAnalysisResult struct {
	ID                 string          `json:"id,omitempty" yaml:"id,omitempty"`
	CompositeScore     float64         `json:"composite_score" yaml:"composite_score"`
	CategoryScores     CategoryScores  `json:"category_scores" yaml:"category_scores"`
	Classification     Level           `json:"classification" yaml:"classification"`
	BMI                *float64        `json:"bmi,omitempty" yaml:"bmi,omitempty"`
	WeightCategory     string          `json:"weight_category,omitempty" yaml:"weight_category,omitempty"`
	RecommendedCadence *int            `json:"recommended_cadence,omitempty" yaml:"recommended_cadence,omitempty"`
	Summary            string          `json:"summary" yaml:"summary"`
	Timestamp          time.Time       `json:"timestamp" yaml:"timestamp"`
	Details            AnalysisDetails `json:"details" yaml:"details"`
}

// RunningError is one detected technique error.
type RunningError struct {
	ErrorType       ErrorType          `json:"error_type" yaml:"error_type"`
	ErrorName       string             `json:"error_name" yaml:"error_name"`
	Severity        Severity           `json:"severity" yaml:"severity"`
	Confidence      float64            `json:"confidence" yaml:"confidence"`
	AffectedMetrics []string           `json:"affected_metrics" yaml:"affected_metrics"`
	Values          map[string]float64 `json:"values" yaml:"values"`
	Description     string             `json:"description" yaml:"description"`
}

// ErrorDetectionResult is the output of error detection.
type ErrorDetectionResult struct {
	Errors          []RunningError `json:"errors" yaml:"errors"`
	ErrorCount      int            `json:"error_count" yaml:"error_count"`
	HighestSeverity Severity       `json:"highest_severity" yaml:"highest_severity"`
	Summary         string         `json:"summary" yaml:"summary"`
}

// Recommendation is one ranked improvement item.
type Recommendation struct {
	Priority            int    `json:"priority" yaml:"priority"`
	FocusArea           string `json:"focus_area" yaml:"focus_area"`
	Recommendation      string `json:"recommendation" yaml:"recommendation"`
	Reason              string `json:"reason" yaml:"reason"`
	ExpectedImprovement string `json:"expected_improvement" yaml:"expected_improvement"`
}

// Exercise is a corrective drill from the static catalog.
type Exercise struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Category     string      `json:"category" yaml:"category"`
	Description  string      `json:"description" yaml:"description"`
	Sets         int         `json:"sets" yaml:"sets"`
	Reps         string      `json:"reps" yaml:"reps"`
	Frequency    string      `json:"frequency" yaml:"frequency"`
	Difficulty   Difficulty  `json:"difficulty" yaml:"difficulty"`
	TargetErrors []ErrorType `json:"target_errors" yaml:"target_errors"`
}

// RecommendationResult is the output of the recommendation engine.
type RecommendationResult struct {
	Recommendations          []Recommendation `json:"recommendations" yaml:"recommendations"`
	Exercises                []Exercise       `json:"exercises" yaml:"exercises"`
	FocusAreas               []string         `json:"focus_areas" yaml:"focus_areas"`
	EstimatedImprovementTime string           `json:"estimated_improvement_time" yaml:"estimated_improvement_time"`
	Summary                  string           `json:"summary" yaml:"summary"`
}

// FocusPriority is one ranked focus item. Score is set for category items.
type FocusPriority struct {
	Area     string   `json:"area" yaml:"area"`
	Priority int      `json:"priority" yaml:"priority"`
	Score    *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Reason   string   `json:"reason" yaml:"reason"`
	Action   string   `json:"action" yaml:"action"`
}

// FocusAreasResult is the output of the focus ranking.
type FocusAreasResult struct {
	Priorities           []FocusPriority `json:"priorities" yaml:"priorities"`
	Tips                 []string        `json:"tips" yaml:"tips"`
	EstimatedImprovement string          `json:"estimated_improvement" yaml:"estimated_improvement"`
}

// ClassificationChange describes how the level moved between two runs.
type ClassificationChange struct {
	From     Level `json:"from" yaml:"from"`
	To       Level `json:"to" yaml:"to"`
	Improved bool  `json:"improved" yaml:"improved"`
}

// ComparisonResult contrasts two analyses supplied by the caller.
type ComparisonResult struct {
	ImprovementPercentage float64              `json:"improvement_percentage" yaml:"improvement_percentage"`
	CategoryChanges       CategoryScores       `json:"category_changes" yaml:"category_changes"`
	ClassificationChange  ClassificationChange `json:"classification_change" yaml:"classification_change"`
	KeyImprovements       []string             `json:"key_improvements" yaml:"key_improvements"`
	AreasToFocus          []string             `json:"areas_to_focus" yaml:"areas_to_focus"`
	Summary               string               `json:"summary" yaml:"summary"`
}

// Report bundles every engine output for one run.
type Report struct {
	Analysis        RunAnalysisResult    `json:"analysis" yaml:"analysis"`
	Errors          ErrorDetectionResult `json:"errors" yaml:"errors"`
	Recommendations RecommendationResult `json:"recommendations" yaml:"recommendations"`
	Focus           FocusAreasResult     `json:"focus" yaml:"focus"`
}

// ValidateErrors checks caller-supplied errors before they are used for
// recommendations or focus ranking.
func ValidateErrors(errs []RunningError) error {
	for i := range errs {
		field := "errors[" + strconv.Itoa(i) + "]"
		switch e := &errs[i]; {
		case e.ErrorType == "":
			return invalid(field+".error_type", "is required")
		case e.Severity.Rank() == 0:
			return invalid(field+".severity", "unknown severity "+strconv.Quote(string(e.Severity)))
		case !finite(e.Confidence) || e.Confidence < 0 || e.Confidence > 100:
			return invalid(field+".confidence", "must be within [0, 100]")
		}
	}
	return nil
}

// ValidateLevel accepts an empty level as unknown.
func ValidateLevel(field string, l Level) error {
	if l == "" || l.Valid() {
		return nil
	}
	return invalid(field, "unknown level "+strconv.Quote(string(l)))
}
