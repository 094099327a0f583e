package sources

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

var (
	idHeaders        = []string{"id", "cedula", "cédula", "identificacion", "identificación"}
	lastNameHeaders  = []string{"last_name", "lastname", "apellidos", "apellido"}
	firstNameHeaders = []string{"first_name", "firstname", "nombres", "nombre"}
)

// FileRoster reads a roster from disk. Files ending in .csv need a header
// row; anything else is read as "ID | LastName | FirstName" lines.
type FileRoster struct {
	Path string
}

func (r FileRoster) FetchRoster(ctx context.Context) ([]models.Student, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster %s: %w", r.Path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(r.Path), ".csv") {
		return ParseCSVRoster(f)
	}
	return ParsePipeRoster(f)
}

// MissingID stands in for the identifier of a "LastName | FirstName" line.
const MissingID = "N/A"

// ParsePipeRoster reads one student per line. Blank lines, lines starting
// with '#', header lines and lines that fail validation are skipped.
func ParsePipeRoster(r io.Reader) ([]models.Student, error) {
	var (
		students []models.Student
		skipped  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		student, ok := parsePipeLine(line)
		if !ok {
			continue
		}
		if err := student.Validate(); err != nil {
			skipped++
			continue
		}
		students = append(students, student)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	return finishRoster(students, skipped)
}

// parsePipeLine reads "ID | LastName | FirstName" when the first field looks
// like an identifier and "LastName | FirstName" otherwise. It reports false
// for header lines and lines with a single field.
func parsePipeLine(line string) (models.Student, bool) {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || isHeaderLine(parts) {
		return models.Student{}, false
	}

	if !looksLikeID(parts) {
		return models.Student{
			ID:        MissingID,
			LastName:  parts[0],
			FirstName: strings.TrimSpace(strings.Join(parts[1:], " ")),
		}, true
	}

	student := models.Student{ID: parts[0], LastName: parts[1]}
	if len(parts) > 2 {
		// extra separators belong to the first name
		student.FirstName = strings.TrimSpace(strings.Join(parts[2:], " "))
	}
	if strings.Contains(strings.ToLower(student.ID), "id") {
		return models.Student{}, false
	}
	return student, true
}

// looksLikeID: all digits, or longer than 6 runes. An empty first field in a
// three-column line is an id column left blank.
func looksLikeID(parts []string) bool {
	first := parts[0]
	if first == "" {
		return len(parts) > 2
	}
	if isDigits(first) {
		return true
	}
	return utf8.RuneCountInString(first) > 6
}

func isHeaderLine(parts []string) bool {
	for _, h := range idHeaders {
		if strings.EqualFold(parts[0], h) {
			return true
		}
	}
	for _, p := range parts {
		if strings.Contains(strings.ToLower(p), "apellido") {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func ParseCSVRoster(r io.Reader) ([]models.Student, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("bad csv roster: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyRoster
	}

	header := records[0]
	idCol := findColumn(header, idHeaders)
	lastCol := findColumn(header, lastNameHeaders)
	firstCol := findColumn(header, firstNameHeaders)
	if idCol < 0 || (lastCol < 0 && firstCol < 0) {
		return nil, fmt.Errorf("csv roster header %v lacks an id or name column", header)
	}

	var (
		students []models.Student
		skipped  int
	)
	for _, rec := range records[1:] {
		student := models.Student{
			ID:        field(rec, idCol),
			LastName:  field(rec, lastCol),
			FirstName: field(rec, firstCol),
		}
		if err := student.Validate(); err != nil {
			skipped++
			continue
		}
		students = append(students, student)
	}

	return finishRoster(students, skipped)
}

func finishRoster(students []models.Student, skipped int) ([]models.Student, error) {
	if skipped > 0 {
		logger.Debug.Printf("Skipped %d roster rows without an id or a name", skipped)
	}
	if len(students) == 0 {
		return nil, ErrEmptyRoster
	}
	return students, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func field(rec []string, col int) string {
	if col < 0 || col >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[col])
}
