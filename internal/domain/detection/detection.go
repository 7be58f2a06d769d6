// Package detection evaluates independent threshold rules over run data and
// reports severity-tagged technique errors.
package detection

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/normalize"
	"github.com/okian/runform/internal/domain/norms"
)

// Posture severity bands on the lean deviation, in degrees.
const (
	postureHighDeviation   = 5.0
	postureMediumDeviation = 3.0
	armDriveHighDeficit    = 15.0
	armDriveMediumDeficit  = 10.0
	summaryTopErrors       = 3
)

// Rule inspects one input and reports at most one error.
type Rule func(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool)

// Rules returns the built-in rules in evaluation order.
func Rules() []Rule {
	return []Rule{
		armAsymmetry,
		legAsymmetry,
		kneeInstability,
		verticalOscillation,
		trunkPosture,
		armDrive,
		trunkWobble,
	}
}

// Detector runs the rule set against validated input.
type Detector struct {
	norms norms.Table
	rules []Rule
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithNorms replaces the reference table.
func WithNorms(t norms.Table) Option {
	return func(d *Detector) {
		d.norms = t
	}
}

// NewDetector creates a Detector with the built-in rules.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		norms: norms.Default(),
		rules: Rules(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect validates the input and reports every triggered rule.
func (d *Detector) Detect(in model.RunBiomechanicsInput) (model.ErrorDetectionResult, error) {
	if err := in.Validate(); err != nil {
		return model.ErrorDetectionResult{}, err
	}
	errs := d.Errors(in)
	return model.ErrorDetectionResult{
		Errors:          errs,
		ErrorCount:      len(errs),
		HighestSeverity: HighestSeverity(errs),
		Summary:         Summarize(errs),
	}, nil
}

// Errors runs the rules without validation. Rules are independent and the
// result keeps evaluation order.
func (d *Detector) Errors(in model.RunBiomechanicsInput) []model.RunningError {
	errs := make([]model.RunningError, 0, len(d.rules))
	for _, rule := range d.rules {
		if e, ok := rule(in, d.norms); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// HighestSeverity returns the most urgent severity present, LOW when none.
func HighestSeverity(errs []model.RunningError) model.Severity {
	highest := model.SeverityLow
	for _, e := range errs {
		if e.Severity.Rank() > highest.Rank() {
			highest = e.Severity
		}
	}
	return highest
}

// SortBySeverity returns a copy ordered by severity, most urgent first.
// Equal severities keep their original order.
func SortBySeverity(errs []model.RunningError) []model.RunningError {
	sorted := append([]model.RunningError(nil), errs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() > sorted[j].Severity.Rank()
	})
	return sorted
}

// Summarize renders severity counts and the top errors.
func Summarize(errs []model.RunningError) string {
	if len(errs) == 0 {
		return "No technique errors detected. Great work!"
	}

	counts := make(map[model.Severity]int, len(model.Severities))
	for _, e := range errs {
		counts[e.Severity]++
	}

	var b strings.Builder
	noun := "errors"
	if len(errs) == 1 {
		noun = "error"
	}
	fmt.Fprintf(&b, "Detected %d %s:\n", len(errs), noun)
	for i := len(model.Severities) - 1; i >= 0; i-- {
		s := model.Severities[i]
		if counts[s] > 0 {
			fmt.Fprintf(&b, "- %d %s\n", counts[s], strings.ToLower(string(s)))
		}
	}
	b.WriteString("\nMain issues:\n")
	for i, e := range SortBySeverity(errs) {
		if i == summaryTopErrors {
			break
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, e.ErrorName, e.Severity)
	}
	return strings.TrimRight(b.String(), "\n")
}

func armAsymmetry(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	left, right := in.LeftArm.ArmSwing.Mean, in.RightArm.ArmSwing.Mean
	diff := math.Abs(left - right)
	tiers := t.Errors.ArmAsymmetry
	if diff <= tiers.Low {
		return model.RunningError{}, false
	}
	return model.RunningError{
		ErrorType:       model.ErrorArmAsymmetry,
		ErrorName:       "Arm swing asymmetry",
		Severity:        normalize.Bucket(diff, tiers.Cutoffs()),
		Confidence:      confidence(50+diff*2, 95),
		AffectedMetrics: []string{"left_arm.arm_swing", "right_arm.arm_swing"},
		Values: map[string]float64{
			"left_arm_swing":  left,
			"right_arm_swing": right,
			"difference":      diff,
		},
		Description: fmt.Sprintf("One arm swings harder than the other (difference %.1f°). "+
			"The imbalance wastes energy and brings fatigue sooner.", diff),
	}, true
}

func legAsymmetry(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	left, right := in.LeftLeg.KneeAngle.Mean, in.RightLeg.KneeAngle.Mean
	diff := math.Abs(left - right)
	tiers := t.Errors.LegAsymmetry
	if diff <= tiers.Low {
		return model.RunningError{}, false
	}
	return model.RunningError{
		ErrorType:       model.ErrorLegAsymmetry,
		ErrorName:       "Leg asymmetry",
		Severity:        normalize.Bucket(diff, tiers.Cutoffs()),
		Confidence:      confidence(45+diff*2.5, 90),
		AffectedMetrics: []string{"left_leg.knee_angle", "right_leg.knee_angle"},
		Values: map[string]float64{
			"left_knee_angle":  left,
			"right_knee_angle": right,
			"difference":       diff,
		},
		Description: fmt.Sprintf("One knee bends more than the other (difference %.1f°). "+
			"This overloads one leg and raises injury risk.", diff),
	}, true
}

func kneeInstability(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	leftCV := normalize.CV(in.LeftLeg.KneeAngle.Std, in.LeftLeg.KneeAngle.Mean)
	rightCV := normalize.CV(in.RightLeg.KneeAngle.Std, in.RightLeg.KneeAngle.Mean)
	side, knee, cv := "right_leg", in.RightLeg.KneeAngle, rightCV
	if leftCV > rightCV {
		side, knee, cv = "left_leg", in.LeftLeg.KneeAngle, leftCV
	}
	tiers := t.Errors.KneeInstability
	if cv <= tiers.Low {
		return model.RunningError{}, false
	}
	return model.RunningError{
		ErrorType:       model.ErrorKneeInstability,
		ErrorName:       "Knee instability",
		Severity:        normalize.Bucket(cv, tiers.Cutoffs()),
		Confidence:      confidence(40+cv*1.5, 88),
		AffectedMetrics: []string{side + ".knee_angle"},
		Values: map[string]float64{
			"cv":   cv,
			"std":  knee.Std,
			"mean": knee.Mean,
		},
		Description: fmt.Sprintf("The knee moves inconsistently from step to step (CV %.1f%%). "+
			"This reduces control and raises injury risk.", cv),
	}, true
}

func verticalOscillation(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	leftCV := normalize.CV(in.LeftLeg.HipAngle.Std, in.LeftLeg.HipAngle.Mean)
	rightCV := normalize.CV(in.RightLeg.HipAngle.Std, in.RightLeg.HipAngle.Mean)
	avg := (leftCV + rightCV) / 2
	tiers := t.Errors.VerticalOscillation
	if avg <= tiers.Low {
		return model.RunningError{}, false
	}
	return model.RunningError{
		ErrorType:       model.ErrorVerticalOscillation,
		ErrorName:       "Excessive vertical oscillation",
		Severity:        normalize.Bucket(avg, tiers.Cutoffs()),
		Confidence:      confidence(35+avg*2, 85),
		AffectedMetrics: []string{"left_leg.hip_angle", "right_leg.hip_angle"},
		Values: map[string]float64{
			"avg_hip_cv":   avg,
			"left_hip_cv":  leftCV,
			"right_hip_cv": rightCV,
		},
		Description: fmt.Sprintf("Each step bounces upward instead of driving forward (hip CV %.1f%%). "+
			"The lost energy makes you tire faster.", avg),
	}, true
}

func trunkPosture(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	angle := in.Trunk.TrunkAngle.Mean
	p := t.Errors.Posture

	var lean string
	var deviation float64
	switch {
	case angle < p.ForwardLeanLow:
		lean, deviation = "forward", p.ForwardLeanLow-angle
	case angle > p.BackwardLeanLow:
		lean, deviation = "backward", angle-p.BackwardLeanLow
	default:
		return model.RunningError{}, false
	}

	severity := model.SeverityLow
	switch {
	case deviation > postureHighDeviation:
		severity = model.SeverityHigh
	case deviation > postureMediumDeviation:
		severity = model.SeverityMedium
	}
	return model.RunningError{
		ErrorType:       model.ErrorPoorTrunkPosture,
		ErrorName:       "Poor trunk posture",
		Severity:        severity,
		Confidence:      confidence(60+deviation*5, 92),
		AffectedMetrics: []string{"trunk.trunk_angle"},
		Values: map[string]float64{
			"trunk_angle": angle,
			"deviation":   deviation,
		},
		Description: fmt.Sprintf("The torso leans %s (%.1f°, %.1f° outside the neutral band). "+
			"An upright back makes running easier and unloads the lower back.", lean, angle, deviation),
	}, true
}

func armDrive(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	avg := (in.LeftArm.ArmSwing.Mean + in.RightArm.ArmSwing.Mean) / 2
	minSwing := t.Errors.ArmDriveMin
	if avg >= minSwing {
		return model.RunningError{}, false
	}
	deficit := minSwing - avg

	severity := model.SeverityLow
	switch {
	case deficit > armDriveHighDeficit:
		severity = model.SeverityHigh
	case deficit > armDriveMediumDeficit:
		severity = model.SeverityMedium
	}
	return model.RunningError{
		ErrorType:       model.ErrorInsufficientArmDrive,
		ErrorName:       "Insufficient arm drive",
		Severity:        severity,
		Confidence:      confidence(50+deficit*2, 88),
		AffectedMetrics: []string{"left_arm.arm_swing", "right_arm.arm_swing"},
		Values: map[string]float64{
			"avg_arm_swing": avg,
			"optimal":       t.ArmSwing.Optimal,
			"deficit":       deficit,
		},
		Description: fmt.Sprintf("The arms swing too little (average %.1f°). "+
			"An active arm swing adds speed and helps balance.", avg),
	}, true
}

// trunkWobble reports side-to-side trunk sway under the posture error type.
func trunkWobble(in model.RunBiomechanicsInput, t norms.Table) (model.RunningError, bool) {
	trunk := in.Trunk.TrunkAngle
	tiers := t.Errors.TrunkInstability
	if trunk.Std <= tiers.Low {
		return model.RunningError{}, false
	}
	return model.RunningError{
		ErrorType:       model.ErrorPoorTrunkPosture,
		ErrorName:       "Trunk instability",
		Severity:        normalize.Bucket(trunk.Std, tiers.Cutoffs()),
		Confidence:      confidence(55+trunk.Std*8, 90),
		AffectedMetrics: []string{"trunk.trunk_angle"},
		Values: map[string]float64{
			"trunk_std": trunk.Std,
			"trunk_cv":  normalize.CV(trunk.Std, trunk.Mean),
		},
		Description: fmt.Sprintf("The torso sways noticeably (std %.1f°). "+
			"This burns energy and costs speed.", trunk.Std),
	}, true
}

func confidence(v, ceiling float64) float64 {
	return normalize.Clamp(v, 0, ceiling)
}
