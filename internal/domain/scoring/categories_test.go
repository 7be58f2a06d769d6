package scoring_test

import (
	"testing"

	"github.com/okian/runform/internal/domain/model/modeltest"
	"github.com/okian/runform/internal/domain/norms"
	"github.com/okian/runform/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestArmAndLegQuality(t *testing.T) {
	table := norms.Default()

	Convey("Given a symmetric input at optimal angles", t, func() {
		in := modeltest.Nominal()

		Convey("When arm and leg quality are scored", func() {
			arm := scoring.ArmQuality(in.LeftArm, in.RightArm, table)
			leg := scoring.LegQuality(in.LeftLeg, in.RightLeg, table)

			Convey("Then both sides score 100 with no asymmetry", func() {
				So(arm.LeftScore, ShouldEqual, 100)
				So(arm.RightScore, ShouldEqual, 100)
				So(arm.AsymmetryIndex, ShouldEqual, 0)
				So(arm.AsymmetryPenalty, ShouldEqual, 0)
				So(arm.Symmetry, ShouldEqual, 100)
				So(arm.Index, ShouldEqual, 100)

				So(leg.AsymmetryIndex, ShouldEqual, 0)
				So(leg.AsymmetryPenalty, ShouldEqual, 0)
				So(leg.Index, ShouldAlmostEqual, 100, 1e-9)
			})
		})
	})

	Convey("Given one arm swinging two sigmas short", t, func() {
		in := modeltest.Nominal()
		in.RightArm.ArmSwing = modeltest.Metric(130, 3)

		Convey("When arm quality is scored", func() {
			arm := scoring.ArmQuality(in.LeftArm, in.RightArm, table)

			Convey("Then the weak side drags the index and pays a penalty", func() {
				So(arm.RightSwingScore, ShouldAlmostEqual, 13.53, 0.01)
				So(arm.RightScore, ShouldAlmostEqual, 56.77, 0.01)
				So(arm.AsymmetryIndex, ShouldBeGreaterThan, 0)
				So(arm.AsymmetryPenalty, ShouldBeGreaterThan, 0)
				So(arm.AsymmetryPenalty, ShouldBeLessThanOrEqualTo, table.ArmAsymmetryMaxPenalty)
				So(arm.Index, ShouldBeLessThan, (arm.LeftScore+arm.RightScore)/2)
			})
		})
	})
}

func TestTrunkStability(t *testing.T) {
	Convey("Given a steady trunk slightly off optimal", t, func() {
		in := modeltest.Nominal()
		in.Trunk.TrunkAngle = modeltest.Metric(174.5, 1.2)

		Convey("When trunk stability is scored", func() {
			r := scoring.TrunkStability(in.Trunk, in.Head, norms.Default())

			Convey("Then the score stays above 95", func() {
				So(r.HeadScore, ShouldEqual, 100)
				So(r.ConsistencyScore, ShouldBeGreaterThan, 99)
				So(r.Score, ShouldBeGreaterThan, 95)
			})
		})
	})
}

func TestSymmetry(t *testing.T) {
	Convey("Given identical sides", t, func() {
		r := scoring.Symmetry(modeltest.Nominal(), norms.Default())
		So(r.ArmAsymmetry, ShouldEqual, 0)
		So(r.LegAsymmetry, ShouldEqual, 0)
		So(r.Score, ShouldAlmostEqual, 100, 1e-9)
	})

	Convey("Given a knee difference", t, func() {
		in := modeltest.Nominal()
		in.LeftLeg.KneeAngle = modeltest.Metric(100, 5)
		in.RightLeg.KneeAngle = modeltest.Metric(80, 5)

		Convey("Then only the leg side loses symmetry", func() {
			r := scoring.Symmetry(in, norms.Default())
			So(r.KneeAsymmetry, ShouldAlmostEqual, 22.22, 0.01)
			So(r.LegAsymmetry, ShouldAlmostEqual, 6.67, 0.01)
			So(r.ArmSymmetry, ShouldEqual, 100)
			So(r.Score, ShouldAlmostEqual, 40+0.6*(100-6.667), 0.01)
		})
	})
}

func TestEfficiency(t *testing.T) {
	Convey("Given the nominal input", t, func() {
		in := modeltest.Nominal()
		base := scoring.Efficiency(in)

		Convey("Then economy combines the three sub-scores", func() {
			want := base.VerticalEfficiency*0.4 + base.ArmEfficiency*0.3 + base.KneeEfficiency*0.3
			So(base.MovementEconomy, ShouldAlmostEqual, want, 1e-9)
			So(base.ArmEfficiency, ShouldEqual, 100)
			So(base.EnergyWastePenalty, ShouldEqual, 0)
		})

		Convey("When an optimal BMI is supplied", func() {
			in.WeightKg = modeltest.Float(68)
			in.HeightCm = modeltest.Float(170)
			r := scoring.Efficiency(in)

			Convey("Then the score receives the bonus", func() {
				So(r.BMIAdjustment, ShouldEqual, 5)
				So(r.HeightAdjustment, ShouldEqual, 0)
				So(r.Score, ShouldAlmostEqual, base.Score+5, 1e-9)
			})
		})

		Convey("When a tall runner supplies only height", func() {
			in.HeightCm = modeltest.Float(190)
			r := scoring.Efficiency(in)

			Convey("Then vertical efficiency is credited", func() {
				So(r.BMIAdjustment, ShouldEqual, 0)
				So(r.HeightAdjustment, ShouldAlmostEqual, 1.2, 1e-9)
			})
		})

		Convey("When variability is extreme", func() {
			in.LeftArm.ArmSwing.Std = 60
			in.RightArm.ArmSwing.Std = 60
			in.LeftLeg.HipAngle.Std = 25
			in.RightLeg.HipAngle.Std = 25
			r := scoring.Efficiency(in)

			Convey("Then the energy waste penalty is capped and the score floored", func() {
				So(r.EnergyWastePenalty, ShouldEqual, 30)
				So(r.Score, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})
	})
}

func TestConsistency(t *testing.T) {
	Convey("Given the three-piece consistency curve", t, func() {
		in := modeltest.Nominal()

		Convey("When variability is very low", func() {
			r := scoring.Consistency(in)

			Convey("Then rigidity is mildly penalized", func() {
				So(r.OverallCV, ShouldBeLessThan, 5)
				So(r.Score, ShouldAlmostEqual, 70+r.OverallCV*4, 1e-9)
				So(r.VariabilityPenalty, ShouldEqual, 0)
			})
		})

		Convey("When every metric varies by 20 percent", func() {
			scale := func(m *float64, mean float64) { *m = mean * 0.2 }
			scale(&in.LeftArm.ArmSwing.Std, in.LeftArm.ArmSwing.Mean)
			scale(&in.LeftArm.ElbowAngle.Std, in.LeftArm.ElbowAngle.Mean)
			scale(&in.RightArm.ArmSwing.Std, in.RightArm.ArmSwing.Mean)
			scale(&in.RightArm.ElbowAngle.Std, in.RightArm.ElbowAngle.Mean)
			scale(&in.LeftLeg.KneeAngle.Std, in.LeftLeg.KneeAngle.Mean)
			scale(&in.LeftLeg.AnkleAngle.Std, in.LeftLeg.AnkleAngle.Mean)
			scale(&in.LeftLeg.HipAngle.Std, in.LeftLeg.HipAngle.Mean)
			scale(&in.LeftLeg.ShankAngle.Std, in.LeftLeg.ShankAngle.Mean)
			scale(&in.RightLeg.KneeAngle.Std, in.RightLeg.KneeAngle.Mean)
			scale(&in.RightLeg.AnkleAngle.Std, in.RightLeg.AnkleAngle.Mean)
			scale(&in.RightLeg.HipAngle.Std, in.RightLeg.HipAngle.Mean)
			scale(&in.RightLeg.ShankAngle.Std, in.RightLeg.ShankAngle.Mean)
			scale(&in.Trunk.TrunkAngle.Std, in.Trunk.TrunkAngle.Mean)
			scale(&in.Head.HeadAngle.Std, in.Head.HeadAngle.Mean)
			r := scoring.Consistency(in)

			Convey("Then the steep branch applies", func() {
				So(r.OverallCV, ShouldAlmostEqual, 20, 1e-9)
				So(r.Score, ShouldAlmostEqual, 54, 1e-9)
				So(r.VariabilityPenalty, ShouldAlmostEqual, 16, 1e-9)
			})
		})
	})
}
