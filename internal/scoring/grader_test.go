package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

func roster() []models.Student {
	return []models.Student{
		{ID: "0912345678", FirstName: "Maria", LastName: "Garcia Lopez"},
		{ID: "0923456789", FirstName: "Juan Carlos", LastName: "Perez"},
		{ID: "0934567890", FirstName: "Ana", LastName: "Torres"},
	}
}

func TestGrader_CalculateScore(t *testing.T) {
	grader := NewGrader(0)

	testCases := []struct {
		name          string
		assignment    models.Assignment
		submitted     bool
		expectedScore int
	}{
		{"not submitted", models.Assignment{Name: "t1"}, false, 0},
		{"submitted, default points", models.Assignment{Name: "t1"}, true, 20},
		{"submitted, own points", models.Assignment{Name: "t1", MaxPoints: 10}, true, 10},
		{"not submitted, own points", models.Assignment{Name: "t1", MaxPoints: 10}, false, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedScore, grader.CalculateScore(tc.assignment, tc.submitted))
		})
	}

	assert.Equal(t, 5, NewGrader(5).CalculateScore(models.Assignment{Name: "t1"}, true))
	assert.Equal(t, 20, (&Grader{}).CalculateScore(models.Assignment{Name: "t1"}, true))
}

func TestGrader_Aggregate(t *testing.T) {
	grader := NewGrader(models.DefaultMaxPoints)
	assignments := []models.Assignment{
		{Name: "Tarea 1", Submissions: []string{"maria_garcia_tarea1.pdf", "Perez Juan", "random_notes.txt"}},
		{Name: "Tarea 2", Submissions: []string{"0934567890_entrega"}},
		{Name: "Tarea 3", Submissions: []string{"garcia lopez", "ana torres", "ana torres"}},
	}

	report := grader.Aggregate(roster(), assignments)

	assert.Equal(t, []string{"Tarea 1", "Tarea 2", "Tarea 3"}, report.Assignments)
	assert.Equal(t, []int{3, 1, 3}, report.SubmissionCounts)
	require.Len(t, report.Rows, 3)

	t.Run("rows keep roster order", func(t *testing.T) {
		assert.Equal(t, "0912345678", report.Rows[0].Student.ID)
		assert.Equal(t, "0923456789", report.Rows[1].Student.ID)
		assert.Equal(t, "0934567890", report.Rows[2].Student.ID)
	})

	t.Run("scores and totals", func(t *testing.T) {
		assert.Equal(t, []int{20, 0, 20}, report.Rows[0].Scores)
		assert.Equal(t, []bool{true, false, true}, report.Rows[0].Submitted)
		assert.Equal(t, 40, report.Rows[0].Total)

		assert.Equal(t, []int{20, 0, 0}, report.Rows[1].Scores)
		assert.Equal(t, 20, report.Rows[1].Total)

		assert.Equal(t, []int{0, 20, 20}, report.Rows[2].Scores)
		assert.Equal(t, 40, report.Rows[2].Total)
	})

	t.Run("orphans", func(t *testing.T) {
		require.Len(t, report.Orphans, 3)
		assert.Equal(t, "Tarea 1", report.Orphans[0].Assignment)
		assert.Equal(t, []string{"random_notes.txt"}, report.Orphans[0].Submissions)
		assert.Empty(t, report.Orphans[1].Submissions)
		assert.Empty(t, report.Orphans[2].Submissions)
	})
}

func TestGrader_Aggregate_OrphanListedOncePerOccurrence(t *testing.T) {
	grader := NewGrader(0)
	assignments := []models.Assignment{
		{Name: "Tarea 1", Submissions: []string{"unknown_folder", "maria garcia"}},
	}

	for _, n := range []int{0, 1, 3} {
		students := roster()[:n]
		report := grader.Aggregate(students, assignments)
		orphans := report.OrphanMap()["Tarea 1"]

		count := 0
		for _, o := range orphans {
			if o == "unknown_folder" {
				count++
			}
		}
		assert.Equal(t, 1, count, "roster size %d", n)
	}
}

func TestGrader_Aggregate_EmptyInputs(t *testing.T) {
	grader := NewGrader(0)

	t.Run("empty roster", func(t *testing.T) {
		assignments := []models.Assignment{
			{Name: "Tarea 1", Submissions: []string{"a", "b"}},
			{Name: "Tarea 2", Submissions: []string{"c"}},
		}
		report := grader.Aggregate(nil, assignments)
		assert.Empty(t, report.Rows)
		assert.Equal(t, []string{"a", "b"}, report.Orphans[0].Submissions)
		assert.Equal(t, []string{"c"}, report.Orphans[1].Submissions)
	})

	t.Run("empty assignments", func(t *testing.T) {
		report := grader.Aggregate(roster(), nil)
		require.Len(t, report.Rows, 3)
		for _, row := range report.Rows {
			assert.Empty(t, row.Scores)
			assert.Equal(t, 0, row.Total)
		}
		assert.Empty(t, report.Assignments)
		assert.Empty(t, report.Orphans)
	})

	t.Run("assignment without submissions", func(t *testing.T) {
		report := grader.Aggregate(roster(), []models.Assignment{{Name: "Tarea 1"}})
		for _, row := range report.Rows {
			assert.Equal(t, []int{0}, row.Scores)
		}
		require.Len(t, report.Orphans, 1)
		assert.Empty(t, report.Orphans[0].Submissions)
	})
}

func TestGrader_Aggregate_TotalOverThreeAssignments(t *testing.T) {
	student := models.Student{ID: "0912345678", FirstName: "Maria", LastName: "Garcia"}
	assignments := []models.Assignment{
		{Name: "t1", Submissions: []string{"maria garcia"}},
		{Name: "t2", Submissions: []string{"someone else"}},
		{Name: "t3", Submissions: []string{"0912345678"}},
	}

	report := NewGrader(0).Aggregate([]models.Student{student}, assignments)
	assert.Equal(t, 40, report.Rows[0].Total)
}

func TestGrader_Aggregate_DoesNotTouchInputs(t *testing.T) {
	students := roster()
	assignments := []models.Assignment{{Name: "t1", Submissions: []string{"Maria Garcia", "x"}}}

	_ = NewGrader(0).Aggregate(students, assignments)

	assert.Equal(t, roster(), students)
	assert.Equal(t, []string{"Maria Garcia", "x"}, assignments[0].Submissions)
}
