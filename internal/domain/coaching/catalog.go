package coaching

import "github.com/okian/runform/internal/domain/model"

const maxExercises = 5

var catalog = []model.Exercise{
	{
		ID:           "single-arm-swing",
		Name:         "Single-arm swing drill",
		Category:     "arms",
		Description:  "Stand in a split stance and swing one arm at a time from hip to chest height, matching the tempo of the stronger side.",
		Sets:         3,
		Reps:         "30 s per arm",
		Frequency:    "3 times a week",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorArmAsymmetry, model.ErrorInsufficientArmDrive},
	},
	{
		ID:           "mirror-arm-swings",
		Name:         "Seated mirror arm swings",
		Category:     "arms",
		Description:  "Sit tall facing a mirror and swing both arms with elbows at about 90 degrees, checking that both sides travel the same distance.",
		Sets:         3,
		Reps:         "45 s",
		Frequency:    "4 times a week",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorArmAsymmetry},
	},
	{
		ID:           "band-arm-drive",
		Name:         "Resistance band arm drive",
		Category:     "arms",
		Description:  "Anchor a light band behind you and drive the elbows back against it in a running rhythm.",
		Sets:         3,
		Reps:         "20 per arm",
		Frequency:    "2-3 times a week",
		Difficulty:   model.DifficultyMedium,
		TargetErrors: []model.ErrorType{model.ErrorInsufficientArmDrive},
	},
	{
		ID:           "single-leg-squat",
		Name:         "Single-leg squat",
		Category:     "legs",
		Description:  "Squat on one leg to a box, keeping the knee tracking over the second toe. Start with the weaker leg.",
		Sets:         3,
		Reps:         "8-10 per leg",
		Frequency:    "3 times a week",
		Difficulty:   model.DifficultyMedium,
		TargetErrors: []model.ErrorType{model.ErrorLegAsymmetry, model.ErrorKneeInstability},
	},
	{
		ID:           "bulgarian-split-squat",
		Name:         "Bulgarian split squat",
		Category:     "legs",
		Description:  "Rear foot elevated on a bench, lower until the front thigh is parallel to the floor and drive back up.",
		Sets:         3,
		Reps:         "10 per leg",
		Frequency:    "2 times a week",
		Difficulty:   model.DifficultyHard,
		TargetErrors: []model.ErrorType{model.ErrorLegAsymmetry},
	},
	{
		ID:           "single-leg-balance",
		Name:         "Single-leg balance on a cushion",
		Category:     "stability",
		Description:  "Balance on one leg on a soft cushion with a slightly bent knee. Close the eyes to progress.",
		Sets:         3,
		Reps:         "30-45 s per leg",
		Frequency:    "daily",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorKneeInstability, model.ErrorExcessivePronation},
	},
	{
		ID:           "lateral-band-walk",
		Name:         "Lateral band walk",
		Category:     "stability",
		Description:  "With a mini band above the knees, step sideways in a half squat without letting the knees cave in.",
		Sets:         3,
		Reps:         "15 steps each way",
		Frequency:    "3 times a week",
		Difficulty:   model.DifficultyMedium,
		TargetErrors: []model.ErrorType{model.ErrorKneeInstability},
	},
	{
		ID:           "front-plank",
		Name:         "Front plank",
		Category:     "core",
		Description:  "Hold a straight line from head to heels on the forearms, bracing the abs and glutes.",
		Sets:         3,
		Reps:         "30-60 s",
		Frequency:    "4 times a week",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorPoorTrunkPosture},
	},
	{
		ID:           "dead-bug",
		Name:         "Dead bug",
		Category:     "core",
		Description:  "Lying on the back, extend the opposite arm and leg slowly while keeping the lower back pressed to the floor.",
		Sets:         3,
		Reps:         "10 per side",
		Frequency:    "3 times a week",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorPoorTrunkPosture},
	},
	{
		ID:           "side-plank",
		Name:         "Side plank",
		Category:     "core",
		Description:  "Support the body on one forearm with hips lifted, keeping shoulders, hips and ankles aligned.",
		Sets:         3,
		Reps:         "30 s per side",
		Frequency:    "3 times a week",
		Difficulty:   model.DifficultyMedium,
		TargetErrors: []model.ErrorType{model.ErrorPoorTrunkPosture},
	},
	{
		ID:           "a-skips",
		Name:         "A-skips",
		Category:     "drills",
		Description:  "Skip forward driving the knee up and snapping the foot down under the hips, travelling forward rather than up.",
		Sets:         4,
		Reps:         "20 m",
		Frequency:    "before every run",
		Difficulty:   model.DifficultyMedium,
		TargetErrors: []model.ErrorType{model.ErrorVerticalOscillation, model.ErrorOverstriding},
	},
	{
		ID:           "cadence-strides",
		Name:         "Metronome cadence strides",
		Category:     "drills",
		Description:  "Run relaxed strides to a metronome set 5% above your usual cadence, keeping steps short and quiet.",
		Sets:         6,
		Reps:         "80 m",
		Frequency:    "2 times a week",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorOverstriding, model.ErrorVerticalOscillation},
	},
	{
		ID:           "short-foot",
		Name:         "Short-foot exercise",
		Category:     "feet",
		Description:  "Seated or standing, draw the ball of the foot toward the heel to lift the arch without curling the toes.",
		Sets:         3,
		Reps:         "10 x 5 s hold",
		Frequency:    "daily",
		Difficulty:   model.DifficultyEasy,
		TargetErrors: []model.ErrorType{model.ErrorExcessivePronation},
	},
	{
		ID:           "eccentric-calf-raise",
		Name:         "Eccentric calf raise",
		Category:     "feet",
		Description:  "Rise on both feet on a step edge and lower slowly on one foot, keeping the ankle from rolling inward.",
		Sets:         3,
		Reps:         "12 per leg",
		Frequency:    "3 times a week",
		Difficulty:   model.DifficultyMedium,
		TargetErrors: []model.ErrorType{model.ErrorExcessivePronation},
	},
}

// Catalog returns a copy of every exercise.
func Catalog() []model.Exercise {
	out := make([]model.Exercise, len(catalog))
	for i, ex := range catalog {
		out[i] = cloneExercise(ex)
	}
	return out
}

// ExercisesFor returns catalog exercises matching the given error types,
// ordered by the first type each one corrects, without duplicates, capped
// at five.
func ExercisesFor(types []model.ErrorType) []model.Exercise {
	out := make([]model.Exercise, 0, maxExercises)
	seen := make(map[string]struct{}, len(catalog))
	for _, et := range types {
		for _, ex := range catalog {
			if _, dup := seen[ex.ID]; dup || !targets(ex, et) {
				continue
			}
			seen[ex.ID] = struct{}{}
			out = append(out, cloneExercise(ex))
			if len(out) == maxExercises {
				return out
			}
		}
	}
	return out
}

func targets(ex model.Exercise, et model.ErrorType) bool {
	for _, t := range ex.TargetErrors {
		if t == et {
			return true
		}
	}
	return false
}

func cloneExercise(ex model.Exercise) model.Exercise {
	ex.TargetErrors = append([]model.ErrorType(nil), ex.TargetErrors...)
	return ex
}
