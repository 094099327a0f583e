package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

// RootAssignmentName labels the single assignment built from the root folder
// when it holds no task folders.
const RootAssignmentName = "Tarea (Carpeta Principal)"

var (
	taskKeywords = []string{"tarea", "trabajo", "lab"}
	taskPattern  = regexp.MustCompile(`(?i)^(task|assignment|deber)\s*\d+`)
)

// IsTaskFolder reports whether a folder name looks like an assignment.
func IsTaskFolder(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range taskKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return taskPattern.MatchString(name)
}

// DirScanner lists a local copy of a cloud submissions folder. Every task
// folder under Root is an assignment whose submissions are its entry names.
type DirScanner struct {
	Root      string
	MaxPoints int
	FS        fs.FS
}

func NewDirScanner(root string, maxPoints int) *DirScanner {
	return &DirScanner{Root: root, MaxPoints: maxPoints, FS: os.DirFS(root)}
}

func (s *DirScanner) FetchAssignments(ctx context.Context) ([]models.Assignment, error) {
	fsys := s.FS
	if fsys == nil {
		fsys = os.DirFS(s.Root)
	}

	rootEntries, err := readEntries(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoFolder, s.Root)
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.Root, err)
	}
	if len(rootEntries) == 0 {
		return []models.Assignment{}, nil
	}

	var tasks []fs.DirEntry
	for _, e := range rootEntries {
		if e.IsDir() && IsTaskFolder(e.Name()) {
			tasks = append(tasks, e)
		}
	}

	if len(tasks) == 0 {
		return []models.Assignment{{
			Name:        RootAssignmentName,
			Source:      s.Root,
			Submissions: entryNames(rootEntries),
			MaxPoints:   s.MaxPoints,
		}}, nil
	}

	assignments := make([]models.Assignment, 0, len(tasks))
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := readEntries(fsys, task.Name())
		if err != nil {
			logger.Error.Printf("Skipping task folder %s: %v", task.Name(), err)
			continue
		}
		assignments = append(assignments, models.Assignment{
			Name:        task.Name(),
			Source:      filepath.Join(s.Root, task.Name()),
			Submissions: entryNames(entries),
			MaxPoints:   s.MaxPoints,
		})
	}

	return assignments, nil
}

// readEntries lists dir without dotfiles, in name order.
func readEntries(fsys fs.FS, dir string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func entryNames(entries []fs.DirEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}
