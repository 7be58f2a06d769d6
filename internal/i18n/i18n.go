// Package i18n maps canonical engine enums to display labels.
//
// The engine only ever emits canonical values (HIGH, ELITE, arm_quality).
// Labels are attached at the HTTP and CLI boundary.
package i18n

import (
	"strings"

	"github.com/okian/runform/internal/domain/model"
)

// Locale identifies a label table.
type Locale string

// Supported locales.
const (
	English Locale = "en"
	Russian Locale = "ru"
)

// Parse resolves a locale tag such as "ru" or "ru-RU". Unknown tags
// report false.
func Parse(tag string) (Locale, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	switch Locale(tag) {
	case English:
		return English, true
	case Russian:
		return Russian, true
	}
	return "", false
}

type table struct {
	severities   map[model.Severity]string
	levels       map[model.Level]string
	difficulties map[model.Difficulty]string
	categories   map[model.Category]string
}

var tables = map[Locale]table{ //nolint:gochecknoglobals // static label tables
	English: {
		severities: map[model.Severity]string{
			model.SeverityLow:      "Low",
			model.SeverityMedium:   "Medium",
			model.SeverityHigh:     "High",
			model.SeverityCritical: "Critical",
		},
		levels: map[model.Level]string{
			model.LevelElite:        "Elite",
			model.LevelAdvanced:     "Advanced",
			model.LevelIntermediate: "Intermediate",
			model.LevelBeginner:     "Beginner",
			model.LevelNeedsHelp:    "Needs help",
		},
		difficulties: map[model.Difficulty]string{
			model.DifficultyEasy:   "Easy",
			model.DifficultyMedium: "Medium",
			model.DifficultyHard:   "Hard",
		},
	},
	Russian: {
		severities: map[model.Severity]string{
			model.SeverityLow:      "Низкая",
			model.SeverityMedium:   "Средняя",
			model.SeverityHigh:     "Высокая",
			model.SeverityCritical: "Критическая",
		},
		levels: map[model.Level]string{
			model.LevelElite:        "Элитный",
			model.LevelAdvanced:     "Продвинутый",
			model.LevelIntermediate: "Средний",
			model.LevelBeginner:     "Начальный",
			model.LevelNeedsHelp:    "Требуется помощь",
		},
		difficulties: map[model.Difficulty]string{
			model.DifficultyEasy:   "Легко",
			model.DifficultyMedium: "Средне",
			model.DifficultyHard:   "Сложно",
		},
		categories: map[model.Category]string{
			model.CategoryArmQuality:     "Качество работы рук",
			model.CategoryLegQuality:     "Качество работы ног",
			model.CategoryTrunkStability: "Стабильность корпуса",
			model.CategorySymmetry:       "Симметрия",
			model.CategoryEfficiency:     "Эффективность",
			model.CategoryConsistency:    "Стабильность движений",
		},
	},
}

func lookup(loc Locale) table {
	if t, ok := tables[loc]; ok {
		return t
	}
	return tables[English]
}

// Severity returns the label for s, or s itself when unknown.
func Severity(loc Locale, s model.Severity) string {
	if v, ok := lookup(loc).severities[s]; ok {
		return v
	}
	return string(s)
}

// Level returns the label for l, or l itself when unknown.
func Level(loc Locale, l model.Level) string {
	if v, ok := lookup(loc).levels[l]; ok {
		return v
	}
	return string(l)
}

// Difficulty returns the label for d, or d itself when unknown.
func Difficulty(loc Locale, d model.Difficulty) string {
	if v, ok := lookup(loc).difficulties[d]; ok {
		return v
	}
	return string(d)
}

// Category returns the label for c. English reuses the engine's own
// display names.
func Category(loc Locale, c model.Category) string {
	if v, ok := lookup(loc).categories[c]; ok {
		return v
	}
	return c.DisplayName()
}
