package models

// ReportRow holds one student's per-assignment scores, in assignment order.
type ReportRow struct {
	Student   Student `json:"student"`
	Scores    []int   `json:"scores"`
	Submitted []bool  `json:"submitted"`
	Total     int     `json:"total"`
}

// Orphan lists the submissions of one assignment that matched nobody.
type Orphan struct {
	Assignment  string   `json:"assignment"`
	Submissions []string `json:"submissions"`
}

type Report struct {
	Assignments      []string    `json:"assignments"`
	SubmissionCounts []int       `json:"submission_counts"`
	Rows             []ReportRow `json:"rows"`
	Orphans          []Orphan    `json:"orphans"`
}

// OrphanMap keys the orphan lists by assignment name. Assignments sharing a
// name have their lists concatenated in order.
func (r *Report) OrphanMap() map[string][]string {
	out := make(map[string][]string, len(r.Orphans))
	for _, o := range r.Orphans {
		out[o.Assignment] = append(out[o.Assignment], o.Submissions...)
	}
	return out
}

// OrphanCount is the total number of unmatched submissions across assignments.
func (r *Report) OrphanCount() int {
	n := 0
	for _, o := range r.Orphans {
		n += len(o.Submissions)
	}
	return n
}
