package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgramLevel(t *testing.T) {
	for _, level := range ProgramLevels() {
		got, err := ParseProgramLevel(string(level))
		require.NoError(t, err)
		assert.Equal(t, level, got)
	}

	for _, bad := range []string{"", "bachelor", "Associate", "PhD "} {
		_, err := ParseProgramLevel(bad)
		assert.Error(t, err, bad)
	}
}

func TestProgramLevelsOrder(t *testing.T) {
	assert.Equal(t, []ProgramLevel{ProgramLevelDiploma, ProgramLevelBachelor, ProgramLevelMaster, ProgramLevelPhD}, ProgramLevels())
}

func TestSyllabusGroupTotalCredit(t *testing.T) {
	assert.Zero(t, SyllabusGroup{}.TotalCredit())

	g := SyllabusGroup{Items: []SyllabusItem{
		{SubjectName: "Mathematics I", CreditHours: 3},
		{SubjectName: "Digital Logic", CreditHours: 3},
		{SubjectName: "C Programming", CreditHours: 4},
	}}
	assert.Equal(t, 10, g.TotalCredit())
}
