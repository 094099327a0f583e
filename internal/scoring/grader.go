// internal/scoring/grader.go
package scoring

import (
	"slices"

	"github.com/shrimpsizemoose/entregas/internal/matching"
	"github.com/shrimpsizemoose/entregas/internal/models"
)

type Grader struct {
	// MaxPoints is used for assignments that carry no value of their own.
	MaxPoints int
}

func NewGrader(maxPoints int) *Grader {
	if maxPoints <= 0 {
		maxPoints = models.DefaultMaxPoints
	}
	return &Grader{MaxPoints: maxPoints}
}

func (g *Grader) pointsFor(a models.Assignment) int {
	if a.MaxPoints > 0 {
		return a.MaxPoints
	}
	if g.MaxPoints > 0 {
		return g.MaxPoints
	}
	return models.DefaultMaxPoints
}

// CalculateScore is all-or-nothing: the full value if anything was submitted.
func (g *Grader) CalculateScore(a models.Assignment, submitted bool) int {
	if !submitted {
		return 0
	}
	return g.pointsFor(a)
}

// Aggregate scores every student against every assignment, keeping both
// orders as given, and collects per assignment the submissions nobody matched.
// The inputs are copied first and never written to.
func (g *Grader) Aggregate(students []models.Student, assignments []models.Assignment) models.Report {
	students = slices.Clone(students)
	assignments = slices.Clone(assignments)

	profiles := make([]matching.Profile, len(students))
	for i, s := range students {
		profiles[i] = matching.NewProfile(s)
	}

	parsed := make([][]matching.Submission, len(assignments))
	report := models.Report{
		Assignments:      make([]string, len(assignments)),
		SubmissionCounts: make([]int, len(assignments)),
		Rows:             make([]models.ReportRow, 0, len(students)),
		Orphans:          make([]models.Orphan, 0, len(assignments)),
	}
	for i, a := range assignments {
		subs := make([]matching.Submission, len(a.Submissions))
		for j, raw := range a.Submissions {
			subs[j] = matching.ParseSubmission(raw)
		}
		parsed[i] = subs
		report.Assignments[i] = a.Name
		report.SubmissionCounts[i] = len(a.Submissions)
	}

	for _, p := range profiles {
		row := models.ReportRow{
			Student:   p.Student,
			Scores:    make([]int, len(assignments)),
			Submitted: make([]bool, len(assignments)),
		}
		for i, a := range assignments {
			submitted := slices.ContainsFunc(parsed[i], p.Matches)
			row.Submitted[i] = submitted
			row.Scores[i] = g.CalculateScore(a, submitted)
			row.Total += row.Scores[i]
		}
		report.Rows = append(report.Rows, row)
	}

	for i, a := range assignments {
		orphan := models.Orphan{Assignment: a.Name, Submissions: []string{}}
		for _, sub := range parsed[i] {
			claimed := slices.ContainsFunc(profiles, func(p matching.Profile) bool {
				return p.Matches(sub)
			})
			if !claimed {
				orphan.Submissions = append(orphan.Submissions, sub.Raw)
			}
		}
		report.Orphans = append(report.Orphans, orphan)
	}

	return report
}
