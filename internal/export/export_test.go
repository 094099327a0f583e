package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/entregas/internal/app"
	"github.com/shrimpsizemoose/entregas/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Assignments:      []string{"Tarea 2", "Tarea 1"},
		SubmissionCounts: []int{1, 2},
		Rows: []models.ReportRow{
			{
				Student:   models.Student{ID: "0923456789", FirstName: "Juan", LastName: "Perez"},
				Scores:    []int{0, 20},
				Submitted: []bool{false, true},
				Total:     20,
			},
			{
				Student:   models.Student{ID: "0912345678", FirstName: "María", LastName: "García López"},
				Scores:    []int{20, 20},
				Submitted: []bool{true, true},
				Total:     40,
			},
		},
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(sampleReport())

	assert.Equal(t, []string{"Cédula", "Apellidos", "Nombres", "Tarea 2", "Tarea 1", "NOTA FINAL"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []interface{}{"0923456789", "Perez", "Juan", 0, 20, 20}, table.Rows[0])
	assert.Equal(t, []interface{}{"0912345678", "García López", "María", 20, 20, 40}, table.Rows[1])
}

func TestBuildTable_NoAssignments(t *testing.T) {
	report := models.Report{Rows: []models.ReportRow{
		{Student: models.Student{ID: "0923456789", FirstName: "Juan", LastName: "Perez"}, Scores: []int{}},
	}}
	table := BuildTable(report)

	assert.Equal(t, []string{"Cédula", "Apellidos", "Nombres", "NOTA FINAL"}, table.Header)
	assert.Equal(t, []interface{}{"0923456789", "Perez", "Juan", 0}, table.Rows[0])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleReport(), FormatCSV, ""))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Cédula", "Apellidos", "Nombres", "Tarea 2", "Tarea 1", "NOTA FINAL"},
		{"0923456789", "Perez", "Juan", "0", "20", "20"},
		{"0912345678", "García López", "María", "20", "20", "40"},
	}, records)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleReport(), FormatXLSX, ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Cédula", "Apellidos", "Nombres", "Tarea 2", "Tarea 1", "NOTA FINAL"}, rows[0])
	assert.Equal(t, []string{"0912345678", "García López", "María", "20", "20", "40"}, rows[2])

	width, err := f.GetColWidth(DefaultSheetName, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(nameColumnWidth), width)

	width, err = f.GetColWidth(DefaultSheetName, "F")
	require.NoError(t, err)
	assert.Equal(t, float64(totalColumnWidth), width)
}

func TestExport_UnknownFormat(t *testing.T) {
	err := Export(&bytes.Buffer{}, sampleReport(), Format("pdf"), "")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseFormat("ods")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, ".csv", f.Extension())
}

func TestColumnWidths(t *testing.T) {
	assert.Equal(t, []float64{15, 25, 25, 12}, columnWidths(4))
	assert.Equal(t, []float64{15, 25, 25, 15, 15, 12}, columnWidths(6))
}

type recordedUpdate struct {
	path   string
	values [][]interface{}
}

func TestGSheetExporter_Push(t *testing.T) {
	var (
		mu      sync.Mutex
		updates []recordedUpdate
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		updates = append(updates, recordedUpdate{path: r.URL.Path, values: body.Values})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := &app.Config{}
	cfg.GSheet = app.GSheetConfig{
		SheetID:        "sheet-123",
		SheetName:      "Calificaciones",
		StartCell:      "A1",
		TimestampRange: "J1",
	}
	cfg.Display.EmojiVariants = []string{"🍪"}

	exporter, err := NewGSheetExporter(context.Background(), cfg,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	exporter.now = func() time.Time { return time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC) }

	require.NoError(t, exporter.Push(context.Background(), BuildTable(sampleReport())))

	require.Len(t, updates, 2)
	assert.True(t, strings.HasSuffix(updates[0].path, "/v4/spreadsheets/sheet-123/values/Calificaciones!A1"), updates[0].path)
	assert.True(t, strings.HasSuffix(updates[1].path, "/values/Calificaciones!J1"), updates[1].path)
	require.Len(t, updates[0].values, 3)
	assert.Equal(t, "NOTA FINAL", updates[0].values[0][5])
	assert.Equal(t, "UPD: 1 April 09:30 🍪", updates[1].values[0][0])
}

func TestScheduler(t *testing.T) {
	s := NewScheduler()

	assert.Error(t, s.Schedule("not a cron", func() {}))
	require.NoError(t, s.Schedule("*/5 * * * *", func() {}))
	assert.Equal(t, 1, s.Jobs())

	s.Start()
	s.Stop()
}
