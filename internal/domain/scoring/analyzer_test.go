package scoring_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/model/modeltest"
	"github.com/okian/runform/internal/domain/norms"
	"github.com/okian/runform/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newAnalyzer() *scoring.Analyzer {
	return scoring.NewAnalyzer(scoring.WithClock(func() time.Time { return fixedTime }))
}

func TestAnalyze(t *testing.T) {
	Convey("Given an analyzer with a fixed clock", t, func() {
		a := newAnalyzer()

		Convey("When the nominal input is analyzed", func() {
			r, err := a.Analyze(modeltest.Nominal())

			Convey("Then the result is complete and well ranked", func() {
				So(err, ShouldBeNil)
				So(r.Timestamp, ShouldEqual, fixedTime)
				So(r.CategoryScores.ArmQuality, ShouldEqual, 100)
				So(r.CategoryScores.Symmetry, ShouldEqual, 100)
				So(r.CompositeScore, ShouldBeGreaterThanOrEqualTo, 85)
				So(r.Classification, ShouldEqual, model.LevelElite)
				So(r.BMI, ShouldBeNil)
				So(r.RecommendedCadence, ShouldBeNil)
				So(r.Summary, ShouldContainSubstring, "Elite level")
			})

			Convey("Then the composite equals the weighted category sum", func() {
				So(r.CompositeScore, ShouldEqual, scoring.Composite(r.CategoryScores, norms.Default().Weights))
			})
		})

		Convey("When weight and height are supplied", func() {
			in := modeltest.Nominal()
			in.WeightKg = modeltest.Float(70)
			in.HeightCm = modeltest.Float(160)
			r, err := a.Analyze(in)

			Convey("Then BMI, weight category and cadence are attached", func() {
				So(err, ShouldBeNil)
				So(*r.BMI, ShouldEqual, 27.3)
				So(r.WeightCategory, ShouldEqual, norms.WeightOverweight)
				So(*r.RecommendedCadence, ShouldEqual, 184)
				So(r.Summary, ShouldContainSubstring, "BMI: 27.3 (overweight)")
			})
		})

		Convey("When the input is invalid", func() {
			in := modeltest.Nominal()
			in.LeftArm.ArmSwing.Std = -2
			_, err := a.Analyze(in)

			Convey("Then no result is produced and the field is named", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "left_arm.arm_swing.std")
			})
		})

		Convey("When a means-only input is analyzed", func() {
			r, err := a.AnalyzeSimple(model.SimpleInput{
				WeightKg: modeltest.Float(72),
				HeightCm: modeltest.Float(180),
			})

			Convey("Then the synthesized run is scored", func() {
				So(err, ShouldBeNil)
				So(r.CompositeScore, ShouldBeBetweenOrEqual, 0, 100)
				So(*r.RecommendedCadence, ShouldEqual, 180)
			})
		})
	})
}

func TestScoresStayInRange(t *testing.T) {
	Convey("Given many random valid inputs", t, func() {
		a := newAnalyzer()
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic seed for reproducible testing

		Convey("Then every category and the composite stay within 0-100", func() {
			for i := 0; i < 500; i++ {
				r, err := a.Analyze(modeltest.Random(rng))
				So(err, ShouldBeNil)
				for _, c := range model.Categories {
					So(r.CategoryScores.Get(c), ShouldBeBetweenOrEqual, 0, 100)
				}
				So(r.CompositeScore, ShouldBeBetweenOrEqual, 0, 100)
				So(r.Classification.Valid(), ShouldBeTrue)
			}
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given the classification thresholds", t, func() {
		c := norms.Default().Classification

		So(scoring.Classify(85.0, c), ShouldEqual, model.LevelElite)
		So(scoring.Classify(84.99, c), ShouldEqual, model.LevelAdvanced)
		So(scoring.Classify(70, c), ShouldEqual, model.LevelAdvanced)
		So(scoring.Classify(55, c), ShouldEqual, model.LevelIntermediate)
		So(scoring.Classify(40.0, c), ShouldEqual, model.LevelBeginner)
		So(scoring.Classify(39.99, c), ShouldEqual, model.LevelNeedsHelp)
		So(scoring.Classify(0, c), ShouldEqual, model.LevelNeedsHelp)
	})
}

func TestRankCategories(t *testing.T) {
	Convey("Given tied category scores", t, func() {
		scores := model.CategoryScores{
			ArmQuality: 80, LegQuality: 90, TrunkStability: 80,
			Symmetry: 60, Efficiency: 60, Consistency: 70,
		}

		Convey("Then ties keep reporting order", func() {
			So(scoring.RankCategories(scores), ShouldResemble, []model.Category{
				model.CategoryLegQuality,
				model.CategoryArmQuality,
				model.CategoryTrunkStability,
				model.CategoryConsistency,
				model.CategorySymmetry,
				model.CategoryEfficiency,
			})
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given two analyses of the same runner", t, func() {
		before := model.RunAnalysisResult{
			CompositeScore: 60,
			Classification: model.LevelIntermediate,
			CategoryScores: model.CategoryScores{
				ArmQuality: 60, LegQuality: 70, TrunkStability: 80,
				Symmetry: 50, Efficiency: 65, Consistency: 75,
			},
		}
		after := before
		after.CompositeScore = 72
		after.Classification = model.LevelAdvanced
		after.CategoryScores.ArmQuality = 75
		after.CategoryScores.TrunkStability = 78
		after.CategoryScores.Symmetry = 52

		Convey("When they are compared", func() {
			r := scoring.Compare(before, after)

			Convey("Then the deltas and level change are reported", func() {
				So(r.ImprovementPercentage, ShouldEqual, 20)
				So(r.CategoryChanges.ArmQuality, ShouldEqual, 15)
				So(r.CategoryChanges.TrunkStability, ShouldEqual, -2)
				So(r.ClassificationChange.Improved, ShouldBeTrue)
				So(r.KeyImprovements, ShouldResemble, []string{"Arm quality improved by 15.0 points"})
				So(r.AreasToFocus, ShouldContain, "Trunk stability dropped by 2.0 points")
				So(r.AreasToFocus, ShouldContain, "Symmetry is still below 70 (52.0/100)")
				So(r.AreasToFocus, ShouldContain, "Efficiency is still below 70 (65.0/100)")
				So(r.Summary, ShouldContainSubstring, "moved up a level")
			})
		})

		Convey("When the baseline composite is zero", func() {
			before.CompositeScore = 0
			So(scoring.Compare(before, after).ImprovementPercentage, ShouldEqual, 0)
		})
	})
}
