package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type linkInput struct {
	CollegeID    uint   `validate:"gt=0" msg:"All fields are required."`
	ProgramLevel string `validate:"required,program_level"`
}

type universityInput struct {
	Name            string `validate:"required,max=255" msg:"University name is required."`
	EstablishedYear int    `validate:"year"`
}

type accountInput struct {
	Username string `validate:"required,min=3,max=20,username"`
	Email    string `validate:"required,email"`
}

func TestMessage(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.Message(linkInput{CollegeID: 1, ProgramLevel: "Bachelor"}))
	assert.Equal(t, "All fields are required.", v.Message(linkInput{ProgramLevel: "Bachelor"}))
	assert.Equal(t, "Program level must be one of Diploma, Bachelor, Master or PhD.",
		v.Message(&linkInput{CollegeID: 1, ProgramLevel: "Doctorate"}))

	assert.Equal(t, "University name is required.", v.Message(universityInput{}))
	assert.Empty(t, v.Message(universityInput{Name: "Test U", EstablishedYear: 2000}))
	assert.Empty(t, v.Message(universityInput{Name: "Test U"}))
	assert.Equal(t, "EstablishedYear is invalid.", v.Message(universityInput{Name: "Test U", EstablishedYear: 99}))

	assert.Equal(t, "Username is invalid.", v.Message(accountInput{Username: "bad name", Email: "a@b.co"}))
	assert.Equal(t, "Please enter a valid email address.", v.Message(accountInput{Username: "good_name", Email: "nope"}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	errs := FormatValidationErrors(v.ValidateStruct(accountInput{}))
	assert.Equal(t, "Username is required.", errs["username"])
	assert.Equal(t, "Email is required.", errs["email"])
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hel\x00lo \n"))
	assert.Equal(t, "Tribhuvan University", SanitizeText("<b>Tribhuvan</b> University"))
	assert.Equal(t, "alert(1) text", SanitizeText("<script>alert(1)</script> text"))
	assert.Equal(t, "5 > 3", SanitizeText("5 > 3"))
	assert.Equal(t, "x<y", SanitizeText("x<y"))
	assert.Equal(t, "GPA <3.0 not eligible", SanitizeText("GPA <3.0 not eligible"))
	assert.Equal(t, "a<b c", SanitizeText("a<b c<i>"))
	assert.Equal(t, "1 < 2 and 3 > 2", SanitizeText("1 < 2 and 3 > 2"))
	assert.True(t, ValidateEmail("demo@edupool.com"))
	assert.False(t, ValidateEmail("demo@"))
}
