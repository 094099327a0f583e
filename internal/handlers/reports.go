package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/app"
	"github.com/shrimpsizemoose/entregas/internal/export"
	"github.com/shrimpsizemoose/entregas/internal/matching"
	"github.com/shrimpsizemoose/entregas/internal/metrics"
	"github.com/shrimpsizemoose/entregas/internal/models"
)

const (
	maxBodyBytes   = 10 << 20
	reportBaseName = "Reporte_Calificaciones"
)

type ReportHandler struct {
	service *app.Service
}

func NewReportHandler(service *app.Service) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

type reportRequest struct {
	Students    []models.Student    `json:"students"`
	Assignments []models.Assignment `json:"assignments"`
}

type reportResponse struct {
	Report  *models.Report             `json:"report"`
	Orphans map[string][]string        `json:"orphans"`
	Hints   map[string][]matching.Hint `json:"hints"`
}

// NewRouter wires the report API, CORS for the browser UI and /metrics.
func NewRouter(service *app.Service) http.Handler {
	h := NewReportHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observeDuration)
	if origins := service.Config.API.CORSOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Post("/api/v1/{course}/report", h.HandleReport)
	r.Get("/api/v1/{course}/reports", h.HandleRuns)
	r.Get("/api/v1/{course}/reports/{id}", h.HandleRun)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func observeDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.APIRequestDuration.WithLabelValues(
			path,
			r.Method,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
	})
}

// guard checks the required headers and the bearer token. It writes the
// error response itself and returns false when the request must stop.
func (h *ReportHandler) guard(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return "", false
	}

	course := chi.URLParam(r, "course")
	if course == "" {
		logger.Error.Printf("Failed to extract course from path: %s", r.URL.Path)
		http.Error(w, "Invalid course", http.StatusBadRequest)
		return "", false
	}

	if err := h.service.ValidateAuth(r, course); err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}

	return course, true
}

func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	course, ok := h.guard(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	var fileFormat export.Format
	if format != "" && format != "json" {
		f, err := export.ParseFormat(format)
		if err != nil {
			http.Error(w, "Unknown format, use json, csv or xlsx", http.StatusBadRequest)
			return
		}
		fileFormat = f
	}

	var req reportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.service.BuildReport(r.Context(), course, req.Students, req.Assignments)
	if errors.Is(err, app.ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if report == nil {
		logger.Error.Printf("Failed to build report for %s: %v", course, err)
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}
	if err != nil {
		// the report itself is complete; only archiving failed
		logger.Error.Printf("Serving unarchived report for %s: %v", course, err)
	}

	if fileFormat == "" {
		writeJSON(w, reportResponse{
			Report:  report,
			Orphans: report.OrphanMap(),
			Hints:   app.OrphanHints(report),
		})
		return
	}

	var buf bytes.Buffer
	if err := export.Export(&buf, *report, fileFormat, h.service.Config.Export.SheetName); err != nil {
		logger.Error.Printf("Failed to export report for %s: %v", course, err)
		http.Error(w, "Failed to export report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", fileFormat.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s%s"`, reportBaseName, fileFormat.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Debug.Printf("Failed to write export response: %v", err)
	}
}

func (h *ReportHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	course, ok := h.guard(w, r)
	if !ok {
		return
	}

	runs, err := h.service.ListRuns(course)
	if err != nil {
		logger.Error.Printf("Failed to list runs for %s: %v", course, err)
		http.Error(w, "Failed to fetch report runs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"runs": runs,
	})
}

// HandleRun serves one archived run with its stored report.
func (h *ReportHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	course, ok := h.guard(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return
	}

	run, err := h.service.GetRun(course, id)
	if err != nil {
		logger.Error.Printf("Failed to get run %d for %s: %v", id, course, err)
		http.Error(w, "Failed to fetch report run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Report run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]interface{}{
		"run":    run,
		"report": json.RawMessage(run.Report),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
