package models

import (
	"regexp"
	"strings"

	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

var letterGradePattern = regexp.MustCompile(`^[ABCDF][+-]?$`)

// gradePoints maps letter grades to quality points on the plus/minus scale.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// letterMidpoints holds representative percentages for letter-constructed
// grades. These are not authoritative scores, only display values.
var letterMidpoints = map[string]float64{
	"A+": 98.0, "A": 95.0, "A-": 91.5,
	"B+": 88.5, "B": 85.0, "B-": 81.5,
	"C+": 78.5, "C": 75.0, "C-": 71.5,
	"D+": 68.5, "D": 65.0, "D-": 61.5,
	"F": 50.0,
}

// Grade is an immutable value holding a percentage score, its letter grade
// and the grade points used for GPA aggregation. Letter and points are always
// mutually consistent; the percentage is authoritative only when the grade was
// constructed from a percentage.
type Grade struct {
	Percentage  float64 `db:"percentage" json:"percentage"`
	LetterGrade string  `db:"letter_grade" json:"letter_grade"`
	GradePoints float64 `db:"points" json:"grade_points"`
}

// NewGradeFromPercentage derives the letter grade and grade points from a
// percentage score in [0,100].
func NewGradeFromPercentage(percentage float64) (Grade, error) {
	if percentage < 0 || percentage > 100 {
		return Grade{}, appErrors.Clone(appErrors.ErrValidation, "percentage must be between 0 and 100")
	}
	letter := letterForPercentage(percentage)
	return Grade{
		Percentage:  percentage,
		LetterGrade: letter,
		GradePoints: gradePoints[letter],
	}, nil
}

// NewGradeFromLetter builds a grade from a letter such as "A-" or "C+". The
// percentage is filled with the band midpoint.
func NewGradeFromLetter(letter string) (Grade, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if !letterGradePattern.MatchString(letter) {
		return Grade{}, appErrors.Clone(appErrors.ErrValidation, "invalid letter grade format")
	}
	points, ok := gradePoints[letter]
	if !ok {
		return Grade{}, appErrors.Clone(appErrors.ErrValidation, "invalid letter grade format")
	}
	return Grade{
		Percentage:  letterMidpoints[letter],
		LetterGrade: letter,
		GradePoints: points,
	}, nil
}

// letterForPercentage applies the 13-band threshold table.
func letterForPercentage(percentage float64) string {
	switch {
	case percentage >= 97:
		return "A+"
	case percentage >= 93:
		return "A"
	case percentage >= 90:
		return "A-"
	case percentage >= 87:
		return "B+"
	case percentage >= 83:
		return "B"
	case percentage >= 80:
		return "B-"
	case percentage >= 77:
		return "C+"
	case percentage >= 73:
		return "C"
	case percentage >= 70:
		return "C-"
	case percentage >= 67:
		return "D+"
	case percentage >= 63:
		return "D"
	case percentage >= 60:
		return "D-"
	default:
		return "F"
	}
}

// IsPassing reports whether the grade is D- or better.
func (g Grade) IsPassing() bool {
	return g.GradePoints >= 0.7
}

// QualityLevel returns a coarse description of the grade.
func (g Grade) QualityLevel() string {
	switch {
	case g.GradePoints >= 3.7:
		return "Excellent"
	case g.GradePoints >= 3.0:
		return "Good"
	case g.GradePoints >= 2.0:
		return "Satisfactory"
	case g.GradePoints >= 1.0:
		return "Below Average"
	default:
		return "Failing"
	}
}

// CourseGrade is a graded (completed) course row for a student.
type CourseGrade struct {
	StudentID   string  `db:"student_id" json:"student_id"`
	CourseID    string  `db:"course_id" json:"course_id"`
	Percentage  float64 `db:"percentage" json:"percentage"`
	LetterGrade string  `db:"letter_grade" json:"letter_grade"`
	GradePoints float64 `db:"points" json:"grade_points"`
	Semester    string  `db:"semester" json:"semester,omitempty"`
}

// Grade returns the embedded grade value.
func (c CourseGrade) Grade() Grade {
	return Grade{Percentage: c.Percentage, LetterGrade: c.LetterGrade, GradePoints: c.GradePoints}
}
