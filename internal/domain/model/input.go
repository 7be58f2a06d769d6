// Package model contains the run data, result contracts and enums shared by
// the analysis engines and their adapters.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// BiomechanicsMetric summarizes one joint angle over a recording.
type BiomechanicsMetric struct {
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Count int     `json:"count" yaml:"count"`

	// absent names the first key missing from the decoded document.
	absent string
}

// metricFields is the wire form of BiomechanicsMetric. Pointers record
// which keys were present.
type metricFields struct {
	Min   *float64 `json:"min" yaml:"min"`
	Max   *float64 `json:"max" yaml:"max"`
	Mean  *float64 `json:"mean" yaml:"mean"`
	Std   *float64 `json:"std" yaml:"std"`
	Count *int     `json:"count" yaml:"count"`
}

var metricKeys = map[string]bool{"min": true, "max": true, "mean": true, "std": true, "count": true}

func (f metricFields) metric() BiomechanicsMetric {
	var m BiomechanicsMetric
	if f == (metricFields{}) {
		return m
	}
	floats := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"min", f.Min, &m.Min},
		{"max", f.Max, &m.Max},
		{"mean", f.Mean, &m.Mean},
		{"std", f.Std, &m.Std},
	}
	for _, fl := range floats {
		if fl.src == nil {
			if m.absent == "" {
				m.absent = fl.name
			}
			continue
		}
		*fl.dst = *fl.src
	}
	if f.Count == nil {
		if m.absent == "" {
			m.absent = "count"
		}
	} else {
		m.Count = *f.Count
	}
	return m
}

// UnmarshalJSON rejects unknown keys and remembers missing ones so that
// validation can name them.
func (m *BiomechanicsMetric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var f metricFields
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return err
	}
	*m = f.metric()
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON. Node.Decode does
// not honor KnownFields, so keys are checked here.
func (m *BiomechanicsMetric) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !metricKeys[key.Value] {
				return fmt.Errorf("line %d: field %s not found in type model.BiomechanicsMetric", key.Line, key.Value)
			}
			// yaml.v3 truncates a float into an int field.
			if val := value.Content[i+1]; key.Value == "count" && val.ShortTag() == "!!float" {
				return &yaml.TypeError{Errors: []string{
					fmt.Sprintf("line %d: cannot unmarshal !!float `%s` into int", val.Line, val.Value),
				}}
			}
		}
	}
	var f metricFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	*m = f.metric()
	return nil
}

// ArmData holds the metrics of one arm.
type ArmData struct {
	ArmSwing   BiomechanicsMetric `json:"arm_swing" yaml:"arm_swing"`
	ElbowAngle BiomechanicsMetric `json:"elbow_angle" yaml:"elbow_angle"`
}

// LegData holds the metrics of one leg.
type LegData struct {
	KneeAngle  BiomechanicsMetric `json:"knee_angle" yaml:"knee_angle"`
	AnkleAngle BiomechanicsMetric `json:"ankle_angle" yaml:"ankle_angle"`
	HipAngle   BiomechanicsMetric `json:"hip_angle" yaml:"hip_angle"`
	ShankAngle BiomechanicsMetric `json:"shank_angle" yaml:"shank_angle"`
}

// TrunkData holds the trunk metric.
type TrunkData struct {
	TrunkAngle BiomechanicsMetric `json:"trunk_angle" yaml:"trunk_angle"`
}

// HeadData holds the head metric.
type HeadData struct {
	HeadAngle BiomechanicsMetric `json:"head_angle" yaml:"head_angle"`
}

// RunBiomechanicsInput is the single input record of every analysis.
type RunBiomechanicsInput struct {
	LeftArm  ArmData   `json:"left_arm" yaml:"left_arm"`
	RightArm ArmData   `json:"right_arm" yaml:"right_arm"`
	LeftLeg  LegData   `json:"left_leg" yaml:"left_leg"`
	RightLeg LegData   `json:"right_leg" yaml:"right_leg"`
	Trunk    TrunkData `json:"trunk" yaml:"trunk"`
	Head     HeadData  `json:"head" yaml:"head"`
	WeightKg *float64  `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HeightCm *float64  `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
}

// HasBodyMetrics reports whether both weight and height are present.
func (in RunBiomechanicsInput) HasBodyMetrics() bool {
	return in.WeightKg != nil && in.HeightCm != nil
}

// Validate checks the input and returns a *ValidationError for the first
// offending field.
func (in RunBiomechanicsInput) Validate() error {
	checks := []struct {
		path   string
		metric BiomechanicsMetric
	}{
		{"left_arm.arm_swing", in.LeftArm.ArmSwing},
		{"left_arm.elbow_angle", in.LeftArm.ElbowAngle},
		{"right_arm.arm_swing", in.RightArm.ArmSwing},
		{"right_arm.elbow_angle", in.RightArm.ElbowAngle},
		{"left_leg.knee_angle", in.LeftLeg.KneeAngle},
		{"left_leg.ankle_angle", in.LeftLeg.AnkleAngle},
		{"left_leg.hip_angle", in.LeftLeg.HipAngle},
		{"left_leg.shank_angle", in.LeftLeg.ShankAngle},
		{"right_leg.knee_angle", in.RightLeg.KneeAngle},
		{"right_leg.ankle_angle", in.RightLeg.AnkleAngle},
		{"right_leg.hip_angle", in.RightLeg.HipAngle},
		{"right_leg.shank_angle", in.RightLeg.ShankAngle},
		{"trunk.trunk_angle", in.Trunk.TrunkAngle},
		{"head.head_angle", in.Head.HeadAngle},
	}
	for _, c := range checks {
		if err := c.metric.validate(c.path); err != nil {
			return err
		}
	}
	if err := validateOptionalPositive("weight_kg", in.WeightKg); err != nil {
		return err
	}
	return validateOptionalPositive("height_cm", in.HeightCm)
}

func (m BiomechanicsMetric) validate(path string) error {
	if m == (BiomechanicsMetric{}) {
		return invalid(path, "is required")
	}
	if m.absent != "" {
		return invalid(path+"."+m.absent, "is required")
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"min", m.Min},
		{"max", m.Max},
		{"mean", m.Mean},
		{"std", m.Std},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return invalid(path+"."+f.name, "must be a finite number")
		}
	}
	if m.Std < 0 {
		return invalid(path+".std", "must be >= 0, got "+formatFloat(m.Std))
	}
	if m.Count <= 0 {
		return invalid(path+".count", "must be a positive integer, got "+strconv.Itoa(m.Count))
	}
	return nil
}

func validateOptionalPositive(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if !finite(*v) || *v <= 0 {
		return invalid(field, "must be > 0 when present, got "+formatFloat(*v))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
