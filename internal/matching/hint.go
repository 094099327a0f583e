package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const unknownStudent = "Unknown Student"

var (
	hintIDPattern = regexp.MustCompile(`\d{5,10}`)

	// LMS export noise; "de" stays so surnames like "De La Cruz" survive
	hintNoise = func() []*regexp.Regexp {
		terms := []string{
			"assignsubmission file",
			"assignsubmission",
			"file",
			"tarea",
			"trabajo grupal",
			"atrasado",
			"copia",
		}
		out := make([]*regexp.Regexp, 0, len(terms))
		for _, t := range terms {
			out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(t)+`\b`))
		}
		return out
	}()
)

// Hint is a best-effort guess of who an unmatched submission belongs to.
type Hint struct {
	Raw  string `json:"raw"`
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// SubmissionHint guesses a display name and an identifier from a raw
// submission name, for manual review of orphans. It never affects scoring.
func SubmissionHint(raw string) Hint {
	s := foldAccents(strings.ToLower(raw))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)

	hint := Hint{Raw: raw, Name: unknownStudent}

	if id := hintIDPattern.FindString(s); id != "" {
		hint.ID = id
		s = strings.Replace(s, id, "", 1)
	}

	for _, re := range hintNoise {
		s = re.ReplaceAllString(s, "")
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return hint
	}
	for i, w := range words {
		words[i] = capitalize(w)
	}
	hint.Name = strings.Join(words, " ")

	return hint
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
