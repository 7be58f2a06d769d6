package i18n

import "github.com/okian/runform/internal/domain/model"

// Display holds labels for the canonical values present in one response.
type Display struct {
	Locale       Locale                      `json:"locale" yaml:"locale"`
	Levels       map[model.Level]string      `json:"levels,omitempty" yaml:"levels,omitempty"`
	Severities   map[model.Severity]string   `json:"severities,omitempty" yaml:"severities,omitempty"`
	Difficulties map[model.Difficulty]string `json:"difficulties,omitempty" yaml:"difficulties,omitempty"`
	Categories   map[model.Category]string   `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// NewDisplay returns an empty Display for loc.
func NewDisplay(loc Locale) *Display {
	return &Display{Locale: loc}
}

// AddLevel records the label for l.
func (d *Display) AddLevel(l model.Level) *Display {
	if l == "" {
		return d
	}
	if d.Levels == nil {
		d.Levels = make(map[model.Level]string)
	}
	d.Levels[l] = Level(d.Locale, l)
	return d
}

// AddSeverity records the label for s.
func (d *Display) AddSeverity(s model.Severity) *Display {
	if s == "" {
		return d
	}
	if d.Severities == nil {
		d.Severities = make(map[model.Severity]string)
	}
	d.Severities[s] = Severity(d.Locale, s)
	return d
}

// AddDifficulty records the label for v.
func (d *Display) AddDifficulty(v model.Difficulty) *Display {
	if v == "" {
		return d
	}
	if d.Difficulties == nil {
		d.Difficulties = make(map[model.Difficulty]string)
	}
	d.Difficulties[v] = Difficulty(d.Locale, v)
	return d
}

// AddCategories records labels for every scoring category.
func (d *Display) AddCategories() *Display {
	d.Categories = make(map[model.Category]string, len(model.Categories))
	for _, c := range model.Categories {
		d.Categories[c] = Category(d.Locale, c)
	}
	return d
}

// Analysis adds the labels an analysis result needs.
func (d *Display) Analysis(r *model.RunAnalysisResult) *Display {
	return d.AddLevel(r.Classification).AddCategories()
}

// Errors adds the severity labels of r.
func (d *Display) Errors(r *model.ErrorDetectionResult) *Display {
	for i := range r.Errors {
		d.AddSeverity(r.Errors[i].Severity)
	}
	if len(r.Errors) > 0 {
		d.AddSeverity(r.HighestSeverity)
	}
	return d
}

// Recommendations adds the difficulty labels of r's exercises.
func (d *Display) Recommendations(r *model.RecommendationResult) *Display {
	for i := range r.Exercises {
		d.AddDifficulty(r.Exercises[i].Difficulty)
	}
	return d
}

// Comparison adds the level labels of a comparison.
func (d *Display) Comparison(r *model.ComparisonResult) *Display {
	return d.AddLevel(r.ClassificationChange.From).AddLevel(r.ClassificationChange.To).AddCategories()
}

// Report adds the labels of every section of a report.
func (d *Display) Report(r *model.Report) *Display {
	return d.Analysis(&r.Analysis).Errors(&r.Errors).Recommendations(&r.Recommendations)
}
