package cadet

import "time"

// Default grade labels, ordered from first to last academic year.
var DefaultGradeLabels = []string{"9th", "10th", "11th", "12th"}

// GradeConfig controls grade auto-calculation.
type GradeConfig struct {
	Labels        []string   // ordered grade labels, one per academic year
	RolloverMonth time.Month // first month of a new academic year
	WindowYears   int        // academic years after enrollment during which the grade is derived
}

// DefaultGradeConfig returns the August rollover with a four-year window.
func DefaultGradeConfig() GradeConfig {
	return GradeConfig{
		Labels:        DefaultGradeLabels,
		RolloverMonth: time.August,
		WindowYears:   len(DefaultGradeLabels),
	}
}

// AcademicYear returns the calendar year in which the academic year containing now began.
func (c GradeConfig) AcademicYear(now time.Time) int {
	month := c.RolloverMonth
	if month < time.January || month > time.December {
		month = time.August
	}
	if now.Month() >= month {
		return now.Year()
	}
	return now.Year() - 1
}

// CalculateGrade derives the grade label for a cadet who enrolled in the academic year startYear.
// PRE: none
// POST: Returns ("", false) when startYear is unset or now falls outside the window
// INVARIANT: Pure; depends only on its arguments
func CalculateGrade(startYear int, now time.Time, cfg GradeConfig) (string, bool) {
	if startYear <= 0 || len(cfg.Labels) == 0 {
		return "", false
	}
	window := cfg.WindowYears
	if window <= 0 || window > len(cfg.Labels) {
		window = len(cfg.Labels)
	}
	offset := cfg.AcademicYear(now) - startYear
	if offset < 0 || offset >= window {
		return "", false
	}
	return cfg.Labels[offset], true
}

// ApplyAutoGrade fills Grade from StartYear when the grade is blank and the window applies.
// POST: Returns true if Grade was set
func (c *Cadet) ApplyAutoGrade(now time.Time, cfg GradeConfig) bool {
	if c.Grade != "" {
		return false
	}
	grade, ok := CalculateGrade(c.StartYear, now, cfg)
	if !ok {
		return false
	}
	c.Grade = grade
	return true
}
