package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"lower case", "JOSE", "jose"},
		{"acute accent", "José", "jose"},
		{"enye", "Peña ÑUÑEZ", "pena nunez"},
		{"punctuation becomes space", "Maria_Garcia-Tarea1.pdf", "maria garcia tarea1 pdf"},
		{"whitespace collapsed and trimmed", "  Hello,   World!! ", "hello world"},
		{"umlaut and cedilla", "Müller Françoise", "muller francoise"},
		{"non latin dropped", "日本 test", "test"},
		{"empty", "", ""},
		{"only symbols", "___---...", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"José", "JOSE", "Peña", "  a__b  ", "Ünïcödé Çase", "0912345678_entrega.zip",
		"İstanbul", "ǅemal", "ﬁle", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_AccentAndCaseInvariant(t *testing.T) {
	assert.Equal(t, Normalize("jose"), Normalize("José"))
	assert.Equal(t, Normalize("jose"), Normalize("JOSE"))
}

func TestMatches(t *testing.T) {
	maria := models.Student{ID: "0912345678", FirstName: "Maria", LastName: "Garcia Lopez"}
	pedro := models.Student{ID: "12", FirstName: "Pedro", LastName: "Ramirez"}

	testCases := []struct {
		name       string
		student    models.Student
		submission string
		expected   bool
	}{
		{
			name:       "identifier contained regardless of names",
			student:    models.Student{ID: "123456", FirstName: "Pedro", LastName: "Ramirez"},
			submission: "Juan_123456_entrega",
			expected:   true,
		},
		{
			name:       "identifier with surrounding whitespace is trimmed",
			student:    models.Student{ID: " 123456 ", FirstName: "Pedro", LastName: "Ramirez"},
			submission: "entrega-123456.pdf",
			expected:   true,
		},
		{
			name:       "short identifier is not used",
			student:    pedro,
			submission: "archivo12.zip",
			expected:   false,
		},
		{
			name:       "four character identifier is not used",
			student:    models.Student{ID: "1234", FirstName: "Pedro", LastName: "Ramirez"},
			submission: "1234_entrega",
			expected:   false,
		},
		{
			name:       "first and last name tokens",
			student:    maria,
			submission: "maria_garcia_tarea1",
			expected:   true,
		},
		{
			name:       "accented submission still matches",
			student:    maria,
			submission: "MARÍA GARCÍA - Tarea 1",
			expected:   true,
		},
		{
			name:       "single surname without first name",
			student:    maria,
			submission: "garcia_tarea1",
			expected:   false,
		},
		{
			name:       "all compound surname tokens without first name",
			student:    maria,
			submission: "garcia_lopez_tarea1",
			expected:   true,
		},
		{
			name:       "name tokens inside a glued submission token",
			student:    maria,
			submission: "MariaGarciaLopez.docx",
			expected:   true,
		},
		{
			name:       "single surname never matches alone",
			student:    models.Student{ID: "0987654321", FirstName: "Ana", LastName: "Torres"},
			submission: "torres.pdf",
			expected:   false,
		},
		{
			name:       "first name only is not enough",
			student:    models.Student{ID: "0987654321", FirstName: "Ana Lucia", LastName: ""},
			submission: "ana_lucia_entrega",
			expected:   false,
		},
		{
			name:       "one letter name tokens ignored",
			student:    models.Student{ID: "0987654321", FirstName: "J", LastName: "Torres"},
			submission: "j_torres",
			expected:   false,
		},
		{
			name:       "empty submission",
			student:    maria,
			submission: "",
			expected:   false,
		},
		{
			name:       "identifier with letters is compared raw",
			student:    models.Student{ID: "AB-12345", FirstName: "Pedro", LastName: "Ramirez"},
			submission: "AB-12345_entrega",
			expected:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Matches(tc.student, tc.submission))
		})
	}
}

func TestProfile_ReusedAcrossSubmissions(t *testing.T) {
	p := NewProfile(models.Student{ID: "0912345678", FirstName: "Maria", LastName: "Garcia Lopez"})

	assert.True(t, p.Matches(ParseSubmission("maria garcia")))
	assert.False(t, p.Matches(ParseSubmission("lopez")))
	assert.True(t, p.Matches(ParseSubmission("0912345678")))
}
