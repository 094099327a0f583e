package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

// identifiers this short are never looked for inside submission names
const minIdentifierLen = 5

// Submission is a raw submission name with its normalized form pre-computed.
type Submission struct {
	Raw        string
	Normalized string
	tokens     map[string]struct{}
}

// ParseSubmission normalizes and tokenizes raw once for repeated matching.
func ParseSubmission(raw string) Submission {
	normalized := Normalize(raw)
	fields := Tokens(normalized)
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return Submission{Raw: raw, Normalized: normalized, tokens: tokens}
}

// matched counts the name tokens that equal a submission token or occur inside one.
func (s Submission) matched(nameTokens []string) int {
	n := 0
	for _, nt := range nameTokens {
		if _, ok := s.tokens[nt]; ok {
			n++
			continue
		}
		for st := range s.tokens {
			if strings.Contains(st, nt) {
				n++
				break
			}
		}
	}
	return n
}

// Profile is a student prepared for repeated matching.
type Profile struct {
	Student models.Student
	id      string
	first   []string
	last    []string
}

// NewProfile precomputes the student's trimmed id and name tokens.
func NewProfile(student models.Student) Profile {
	return Profile{
		Student: student,
		id:      strings.TrimSpace(student.ID),
		first:   nameTokens(student.FirstName),
		last:    nameTokens(student.LastName),
	}
}

// nameTokens keeps the normalized tokens longer than one character.
func nameTokens(name string) []string {
	var out []string
	for _, t := range Tokens(Normalize(name)) {
		if utf8.RuneCountInString(t) > 1 {
			out = append(out, t)
		}
	}
	return out
}

// Matches applies the rules in order and stops at the first that holds:
//
//  1. the trimmed identifier is longer than 4 characters and occurs in the
//     normalized submission name;
//  2. at least one last-name token and one first-name token occur;
//  3. every last-name token occurs and there are at least two of them.
//
// The identifier in rule 1 is not normalized itself, so only identifiers made
// of lowercase letters and digits can ever match through it.
func (p Profile) Matches(sub Submission) bool {
	if utf8.RuneCountInString(p.id) >= minIdentifierLen && strings.Contains(sub.Normalized, p.id) {
		return true
	}

	matchedLast := sub.matched(p.last)
	matchedFirst := sub.matched(p.first)

	if matchedLast > 0 && matchedFirst > 0 {
		return true
	}

	if matchedLast == len(p.last) && len(p.last) >= 2 {
		return true
	}

	return false
}

// Matches reports whether submission is the student's.
func Matches(student models.Student, submission string) bool {
	return NewProfile(student).Matches(ParseSubmission(submission))
}
