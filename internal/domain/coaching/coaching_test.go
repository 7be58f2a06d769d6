package coaching_test

import (
	"testing"

	"github.com/okian/runform/internal/domain/coaching"
	"github.com/okian/runform/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func runErr(t model.ErrorType, name string, sev model.Severity, conf float64) model.RunningError {
	return model.RunningError{
		ErrorType:   t,
		ErrorName:   name,
		Severity:    sev,
		Confidence:  conf,
		Description: name + " detected",
	}
}

func TestRecommend(t *testing.T) {
	Convey("Given no detected errors", t, func() {
		r := coaching.Recommend(nil, model.LevelElite)

		Convey("Then a single maintain recommendation is returned", func() {
			So(r.Recommendations, ShouldHaveLength, 1)
			So(r.Recommendations[0].Priority, ShouldEqual, 1)
			So(r.Recommendations[0].FocusArea, ShouldEqual, "Maintain current form")
			So(r.Exercises, ShouldNotBeNil)
			So(r.Exercises, ShouldBeEmpty)
			So(r.FocusAreas, ShouldResemble, []string{"Maintain technique"})
			So(r.EstimatedImprovementTime, ShouldEqual, "not required")
		})
	})

	Convey("Given errors of mixed severity", t, func() {
		errs := []model.RunningError{
			runErr(model.ErrorVerticalOscillation, "Bounce", model.SeverityMedium, 70),
			runErr(model.ErrorArmAsymmetry, "Arms", model.SeverityHigh, 60),
			runErr(model.ErrorPoorTrunkPosture, "Posture", model.SeverityHigh, 80),
			runErr(model.ErrorKneeInstability, "Knee", model.SeverityCritical, 50),
		}

		Convey("When recommendations are built", func() {
			r := coaching.Recommend(errs, model.LevelIntermediate)

			Convey("Then they are ranked by severity then confidence", func() {
				So(r.Recommendations, ShouldHaveLength, 4)
				So(r.Recommendations[0].FocusArea, ShouldEqual, "Knee")
				So(r.Recommendations[1].FocusArea, ShouldEqual, "Posture")
				So(r.Recommendations[2].FocusArea, ShouldEqual, "Arms")
				So(r.Recommendations[3].FocusArea, ShouldEqual, "Bounce")
				So(r.Recommendations[3].Priority, ShouldEqual, 4)
				So(r.Recommendations[0].Reason, ShouldEqual, "Knee detected")
			})

			Convey("Then focus areas follow the ranked error types", func() {
				So(r.FocusAreas, ShouldResemble, []string{
					"Leg mechanics", "Core stability", "Arm mechanics", "Horizontal propulsion",
				})
			})

			Convey("Then exercises are unique and capped", func() {
				So(len(r.Exercises), ShouldBeBetweenOrEqual, 1, 5)
				seen := map[string]bool{}
				for _, ex := range r.Exercises {
					So(seen[ex.ID], ShouldBeFalse)
					seen[ex.ID] = true
				}
				So(r.Exercises[0].TargetErrors, ShouldContain, model.ErrorKneeInstability)
			})

			Convey("Then the time estimate reflects the load", func() {
				// 6 + 2*4 + 4*2 = 22 weeks
				So(r.EstimatedImprovementTime, ShouldEqual, "3-6 months with regular training and a coach")
			})

			Convey("Then the input is left untouched", func() {
				So(errs[0].ErrorName, ShouldEqual, "Bounce")
			})
		})
	})

	Convey("Given more than five errors", t, func() {
		var errs []model.RunningError
		for i := 0; i < 7; i++ {
			errs = append(errs, runErr(model.ErrorOverstriding, "Stride", model.SeverityLow, float64(50+i)))
		}
		r := coaching.Recommend(errs, "")

		Convey("Then a sixth coach recommendation is appended", func() {
			So(r.Recommendations, ShouldHaveLength, 6)
			So(r.Recommendations[5].Priority, ShouldEqual, 6)
			So(r.Recommendations[5].Reason, ShouldEqual, "7 technique errors detected")
			So(r.Recommendations[0].ExpectedImprovement, ShouldEqual, "15-20% better technique in 3-4 weeks")
		})
	})
}

func TestEstimateImprovementTime(t *testing.T) {
	Convey("Given a single low error", t, func() {
		errs := []model.RunningError{runErr(model.ErrorArmAsymmetry, "Arms", model.SeverityLow, 60)}

		So(coaching.EstimateImprovementTime(errs, model.LevelIntermediate), ShouldEqual, "2-4 weeks with regular training")
	})

	Convey("Given one high error", t, func() {
		errs := []model.RunningError{runErr(model.ErrorArmAsymmetry, "Arms", model.SeverityHigh, 60)}

		Convey("Then experienced runners adapt faster", func() {
			// 6 weeks scaled to 4.2, ceil 5
			So(coaching.EstimateImprovementTime(errs, model.LevelElite), ShouldEqual, "1-2 months with regular training")
			So(coaching.EstimateImprovementTime(errs, ""), ShouldEqual, "1-2 months with regular training")
		})
	})

	Convey("Given one critical error", t, func() {
		errs := []model.RunningError{runErr(model.ErrorKneeInstability, "Knee", model.SeverityCritical, 60)}

		Convey("Then beginners need longer", func() {
			// 8 weeks, 10.4 for beginners
			So(coaching.EstimateImprovementTime(errs, model.LevelIntermediate), ShouldEqual, "1-2 months with regular training")
			So(coaching.EstimateImprovementTime(errs, model.LevelBeginner), ShouldEqual, "2-3 months with regular training")
		})
	})

	Convey("Given no errors", t, func() {
		So(coaching.EstimateImprovementTime(nil, model.LevelBeginner), ShouldEqual, "not required")
	})
}

func TestExercisesFor(t *testing.T) {
	Convey("Given error types with overlapping exercises", t, func() {
		ex := coaching.ExercisesFor([]model.ErrorType{
			model.ErrorArmAsymmetry,
			model.ErrorInsufficientArmDrive,
			model.ErrorArmAsymmetry,
		})

		Convey("Then each exercise appears once in first-match order", func() {
			ids := make([]string, len(ex))
			for i, e := range ex {
				ids[i] = e.ID
			}
			So(ids, ShouldResemble, []string{"single-arm-swing", "mirror-arm-swings", "band-arm-drive"})
		})
	})

	Convey("Given every error type", t, func() {
		var all []model.ErrorType
		for _, e := range coaching.Catalog() {
			all = append(all, e.TargetErrors...)
		}
		So(coaching.ExercisesFor(all), ShouldHaveLength, 5)
	})

	Convey("Given a caller that mutates a returned exercise", t, func() {
		ex := coaching.ExercisesFor([]model.ErrorType{model.ErrorPoorTrunkPosture})
		ex[0].TargetErrors[0] = model.ErrorOverstriding
		ex[0].Name = "changed"

		Convey("Then the catalog is unchanged", func() {
			again := coaching.ExercisesFor([]model.ErrorType{model.ErrorPoorTrunkPosture})
			So(again[0].Name, ShouldEqual, "Front plank")
			So(again[0].TargetErrors[0], ShouldEqual, model.ErrorPoorTrunkPosture)
		})
	})

	Convey("Given every known error type", t, func() {
		types := []model.ErrorType{
			model.ErrorArmAsymmetry, model.ErrorLegAsymmetry, model.ErrorKneeInstability,
			model.ErrorVerticalOscillation, model.ErrorPoorTrunkPosture, model.ErrorOverstriding,
			model.ErrorExcessivePronation, model.ErrorInsufficientArmDrive,
		}

		Convey("Then the catalog covers each of them", func() {
			for _, et := range types {
				So(coaching.ExercisesFor([]model.ErrorType{et}), ShouldNotBeEmpty)
			}
		})
	})
}

func TestFocus(t *testing.T) {
	analysis := model.RunAnalysisResult{
		CompositeScore: 72,
		CategoryScores: model.CategoryScores{
			ArmQuality: 90, LegQuality: 80, TrunkStability: 88,
			Symmetry: 70, Efficiency: 60, Consistency: 84,
		},
	}

	Convey("Given weak categories and urgent errors", t, func() {
		errs := []model.RunningError{
			runErr(model.ErrorLegAsymmetry, "Legs", model.SeverityLow, 55),
			runErr(model.ErrorKneeInstability, "Knee", model.SeverityCritical, 70),
			runErr(model.ErrorPoorTrunkPosture, "Posture", model.SeverityHigh, 80),
		}

		Convey("When focus areas are ranked", func() {
			r := coaching.Focus(errs, analysis)

			Convey("Then weak categories come first, weakest first", func() {
				So(r.Priorities[0].Area, ShouldEqual, "Running economy")
				So(*r.Priorities[0].Score, ShouldEqual, 60)
				So(r.Priorities[1].Area, ShouldEqual, "Left/right balance")
				So(r.Priorities[2].Area, ShouldEqual, "Leg technique")
				So(r.Priorities[3].Area, ShouldEqual, "Movement consistency")
			})

			Convey("Then urgent errors follow and the list is capped at five", func() {
				So(r.Priorities, ShouldHaveLength, 5)
				So(r.Priorities[4].Area, ShouldEqual, "Knee")
				So(r.Priorities[4].Score, ShouldBeNil)
				So(r.Priorities[4].Priority, ShouldEqual, 5)
			})

			Convey("Then tips address exercises and the weakest category", func() {
				So(r.Tips, ShouldHaveLength, 3)
				So(r.Tips[1], ShouldEqual, "Learn to run lighter: less effort, more speed.")
				So(r.Tips[2], ShouldContainSubstring, "not only about speed")
				So(r.EstimatedImprovement, ShouldEqual, "3-6 months")
			})
		})
	})

	Convey("Given a strong runner with one low error", t, func() {
		strong := model.RunAnalysisResult{
			CompositeScore: 92,
			CategoryScores: model.CategoryScores{
				ArmQuality: 95, LegQuality: 93, TrunkStability: 96,
				Symmetry: 90, Efficiency: 86, Consistency: 88,
			},
		}
		r := coaching.Focus([]model.RunningError{runErr(model.ErrorArmAsymmetry, "Arms", model.SeverityLow, 70)}, strong)

		Convey("Then there are no priorities and praise is given", func() {
			So(r.Priorities, ShouldBeEmpty)
			So(r.Tips[len(r.Tips)-1], ShouldEqual, "Your technique is excellent. Keep it up!")
			So(r.EstimatedImprovement, ShouldEqual, "1-2 months")
		})
	})

	Convey("Given no errors", t, func() {
		r := coaching.Focus(nil, analysis)

		Convey("Then the fixed maintain result is returned", func() {
			So(r.Priorities, ShouldHaveLength, 1)
			So(r.Priorities[0].Area, ShouldEqual, "Maintain current form")
			So(r.EstimatedImprovement, ShouldEqual, "not required")
		})
	})
}
