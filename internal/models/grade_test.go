package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFromPercentageBands(t *testing.T) {
	cases := []struct {
		percentage float64
		letter     string
		points     float64
	}{
		{100, "A+", 4.0},
		{97, "A+", 4.0},
		{95, "A", 4.0},
		{93, "A", 4.0},
		{91.5, "A-", 3.7},
		{90, "A-", 3.7},
		{88, "B+", 3.3},
		{85, "B", 3.0},
		{81, "B-", 2.7},
		{78, "C+", 2.3},
		{75, "C", 2.0},
		{71, "C-", 1.7},
		{68, "D+", 1.3},
		{65, "D", 1.0},
		{60, "D-", 0.7},
		{59.9, "F", 0.0},
		{0, "F", 0.0},
	}

	for _, tc := range cases {
		grade, err := NewGradeFromPercentage(tc.percentage)
		require.NoError(t, err, "percentage %v", tc.percentage)
		assert.Equal(t, tc.letter, grade.LetterGrade, "percentage %v", tc.percentage)
		assert.InDelta(t, tc.points, grade.GradePoints, 0.0001, "percentage %v", tc.percentage)

		// Re-deriving from the letter must agree with the points table.
		fromLetter, err := NewGradeFromLetter(grade.LetterGrade)
		require.NoError(t, err)
		assert.InDelta(t, grade.GradePoints, fromLetter.GradePoints, 0.0001)
	}
}

func TestGradeFromPercentageRange(t *testing.T) {
	_, err := NewGradeFromPercentage(-0.1)
	require.Error(t, err)
	_, err = NewGradeFromPercentage(100.1)
	require.Error(t, err)
}

func TestGradeFromLetter(t *testing.T) {
	grade, err := NewGradeFromLetter("b+")
	require.NoError(t, err)
	assert.Equal(t, "B+", grade.LetterGrade)
	assert.InDelta(t, 3.3, grade.GradePoints, 0.0001)
	assert.InDelta(t, 88.5, grade.Percentage, 0.0001)

	for _, invalid := range []string{"", "E", "A++", "AB", "+A", "G-"} {
		_, err := NewGradeFromLetter(invalid)
		require.Error(t, err, "letter %q", invalid)
	}
}

func TestGradeIsPassing(t *testing.T) {
	dMinus, err := NewGradeFromLetter("D-")
	require.NoError(t, err)
	assert.True(t, dMinus.IsPassing())

	f, err := NewGradeFromLetter("F")
	require.NoError(t, err)
	assert.False(t, f.IsPassing())
}

func TestGradeQualityLevel(t *testing.T) {
	cases := map[string]string{
		"A":  "Excellent",
		"A-": "Excellent",
		"B":  "Good",
		"C":  "Satisfactory",
		"D":  "Below Average",
		"F":  "Failing",
	}
	for letter, want := range cases {
		grade, err := NewGradeFromLetter(letter)
		require.NoError(t, err)
		assert.Equal(t, want, grade.QualityLevel(), "letter %s", letter)
	}
}
