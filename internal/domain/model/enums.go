package model

// Severity grades a detected technique error.
type Severity string

// Severity values ordered from least to most urgent.
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Severities lists every severity in ascending order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities: LOW=1 ... CRITICAL=4, unknown=0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Level is the runner classification derived from the composite score.
type Level string

// Runner levels from strongest to weakest.
const (
	LevelElite        Level = "ELITE"
	LevelAdvanced     Level = "ADVANCED"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelBeginner     Level = "BEGINNER"
	LevelNeedsHelp    Level = "NEEDS_HELP"
)

// Rank orders levels: NEEDS_HELP=1 ... ELITE=5, unknown=0.
func (l Level) Rank() int {
	switch l {
	case LevelNeedsHelp:
		return 1
	case LevelBeginner:
		return 2
	case LevelIntermediate:
		return 3
	case LevelAdvanced:
		return 4
	case LevelElite:
		return 5
	default:
		return 0
	}
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool { return l.Rank() > 0 }

// ErrorType identifies a kind of technique error.
type ErrorType string

// Known error types. OVERSTRIDING and EXCESSIVE_PRONATION have no
// detection rule yet but are carried by recommendations and the catalog.
const (
	ErrorArmAsymmetry         ErrorType = "ARM_ASYMMETRY"
	ErrorLegAsymmetry         ErrorType = "LEG_ASYMMETRY"
	ErrorKneeInstability      ErrorType = "KNEE_INSTABILITY"
	ErrorVerticalOscillation  ErrorType = "EXCESSIVE_VERTICAL_OSCILLATION"
	ErrorPoorTrunkPosture     ErrorType = "POOR_TRUNK_POSTURE"
	ErrorOverstriding         ErrorType = "OVERSTRIDING"
	ErrorExcessivePronation   ErrorType = "EXCESSIVE_PRONATION"
	ErrorInsufficientArmDrive ErrorType = "INSUFFICIENT_ARM_DRIVE"
)

// Difficulty grades an exercise.
type Difficulty string

// Exercise difficulties.
const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Category names one of the six scored areas.
type Category string

// Scored categories.
const (
	CategoryArmQuality     Category = "arm_quality"
	CategoryLegQuality     Category = "leg_quality"
	CategoryTrunkStability Category = "trunk_stability"
	CategorySymmetry       Category = "symmetry"
	CategoryEfficiency     Category = "efficiency"
	CategoryConsistency    Category = "consistency"
)

// Categories lists the categories in reporting order.
var Categories = []Category{
	CategoryArmQuality,
	CategoryLegQuality,
	CategoryTrunkStability,
	CategorySymmetry,
	CategoryEfficiency,
	CategoryConsistency,
}

// DisplayName returns the English name of the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryArmQuality:
		return "Arm quality"
	case CategoryLegQuality:
		return "Leg quality"
	case CategoryTrunkStability:
		return "Trunk stability"
	case CategorySymmetry:
		return "Symmetry"
	case CategoryEfficiency:
		return "Efficiency"
	case CategoryConsistency:
		return "Consistency"
	default:
		return string(c)
	}
}
