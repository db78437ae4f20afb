package gedcom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFamilyFile = `0 HEAD
1 SOUR TestSuite
0 @I1@ INDI
1 NAME John /Smith/
1 SEX M
1 BIRT
2 DATE 1 JAN 1950
2 PLAC London, England
1 FAMS @F1@
0 @I2@ INDI
1 NAME Mary /Jones/
1 SEX F
1 FAMS @F1@
0 @I3@ INDI
1 NAME Peter /Smith/
1 SEX M
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 MARR
2 DATE 12 JUN 1948
2 PLAC York
0 TRLR
`

func TestParseFamilyFile(t *testing.T) {
	result, err := Parse(strings.NewReader(sampleFamilyFile))
	require.NoError(t, err)

	require.Len(t, result.Individuals, 3)
	require.Len(t, result.Families, 1)

	// file order preserved
	assert.Equal(t, "I1", result.Individuals[0].Pointer)
	assert.Equal(t, "I2", result.Individuals[1].Pointer)
	assert.Equal(t, "I3", result.Individuals[2].Pointer)

	john := result.IndividualByPointer("I1")
	require.NotNil(t, john)
	assert.Equal(t, "John /Smith/", john.Name)
	assert.Equal(t, "M", john.Sex)
	require.NotNil(t, john.Birth)
	assert.Equal(t, "1 JAN 1950", john.Birth.Date)
	assert.Equal(t, "London, England", john.Birth.Place)
	assert.Nil(t, john.Death)
	assert.Equal(t, []string{"F1"}, john.FamiliesAsSpouse)

	peter := result.IndividualByPointer("I3")
	require.NotNil(t, peter)
	assert.Equal(t, []string{"F1"}, peter.FamiliesAsChild)

	fam := result.FamilyByPointer("F1")
	require.NotNil(t, fam)
	assert.Equal(t, []string{"I1"}, fam.Husbands)
	assert.Equal(t, []string{"I2"}, fam.Wives)
	assert.Equal(t, []string{"I3"}, fam.Children)
	require.NotNil(t, fam.Marriage)
	assert.Equal(t, "12 JUN 1948", fam.Marriage.Date)
	assert.Equal(t, "York", fam.Marriage.Place)
}

func TestParseSkipsMalformedLines(t *testing.T) {
	input := "0 @I1@ INDI\n" +
		"garbage without a level\n" +
		"x NAME broken\n" +
		"1 NAME Ann /Lee/\n" +
		"\n" +
		"1\n" +
		"1 SEX F\n"
	result, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Individuals, 1)
	assert.Equal(t, "Ann /Lee/", result.Individuals[0].Name)
	assert.Equal(t, "F", result.Individuals[0].Sex)
}

func TestParseIgnoresOtherRecords(t *testing.T) {
	// a NOTE record between INDI records must not swallow or corrupt them
	input := "0 @I1@ INDI\n" +
		"1 NAME First /Person/\n" +
		"0 @N1@ NOTE\n" +
		"1 CONT some note text\n" +
		"1 NAME should be ignored\n" +
		"0 @I2@ INDI\n" +
		"1 NAME Second /Person/\n"
	result, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Individuals, 2)
	assert.Equal(t, "First /Person/", result.Individuals[0].Name)
	assert.Equal(t, "Second /Person/", result.Individuals[1].Name)
}

func TestParseRepeatedSpouseLines(t *testing.T) {
	input := "0 @F1@ FAM\n" +
		"1 HUSB @I1@\n" +
		"1 HUSB @I2@\n" +
		"1 WIFE @I3@\n"
	result, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Families, 1)
	assert.Equal(t, []string{"I1", "I2"}, result.Families[0].Husbands)
	assert.Equal(t, []string{"I3"}, result.Families[0].Wives)
}

func TestParseDateOutsideEventContext(t *testing.T) {
	// a level-2 DATE under a non-event tag must not attach anywhere
	input := "0 @I1@ INDI\n" +
		"1 NAME X /Y/\n" +
		"2 DATE 1 JAN 1900\n"
	result, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Individuals, 1)
	assert.Nil(t, result.Individuals[0].Birth)
	assert.Nil(t, result.Individuals[0].Death)
}

func TestTrimPointer(t *testing.T) {
	assert.Equal(t, "I1", TrimPointer("@I1@"))
	assert.Equal(t, "I1", TrimPointer("I1"))
	assert.Equal(t, "", TrimPointer("@@"))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		raw     string
		given   string
		surname string
	}{
		{"John /Smith/", "John", "Smith"},
		{"John Henry /Smith/", "John Henry", "Smith"},
		{"/Smith/", "Unknown", "Smith"},
		{"John", "John", ""},
		{"", "Unknown", ""},
	}
	for _, tt := range tests {
		given, surname := SplitName(tt.raw)
		assert.Equal(t, tt.given, given, "given for %q", tt.raw)
		assert.Equal(t, tt.surname, surname, "surname for %q", tt.raw)
	}
}
