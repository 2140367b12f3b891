package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/campusops/viability-engine/internal/analysis"
	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/db"
	"github.com/campusops/viability-engine/internal/metrics"
	"github.com/campusops/viability-engine/internal/report"
	"github.com/campusops/viability-engine/internal/timetable"
	"go.uber.org/zap"
)

// HTTPServer — триггерный интерфейс ядра: запуск анализа по студенту или по
// всему портфелю плюс read-only сводный отчёт. Доступ/тенант считается уже
// проверенным вызывающей стороной.
type HTTPServer struct {
	srv *http.Server
}

func StartHTTP(ctx context.Context, addr string, database *sql.DB, an *analysis.Analyzer, th config.Thresholds, log *zap.SugaredLogger) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze/{id}", func(w http.ResponseWriter, r *http.Request) {
		studentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad student id"})
			return
		}
		res, err := an.AnalyzeStudent(r.Context(), studentID, "http")
		if err != nil {
			log.Errorw("analyze failed", "student_id", studentID, "err", err)
			writeJSON(w, http.StatusInternalServerError, analysis.StudentError{
				StudentID: studentID, Message: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("POST /analyze-all", func(w http.ResponseWriter, r *http.Request) {
		res, err := an.AnalyzeAll(r.Context(), "http")
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	// Read-only выдача артефактов для дашбордов: записи сюда не принимаются.
	mux.HandleFunc("GET /students/{id}/summary", func(w http.ResponseWriter, r *http.Request) {
		studentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad student id"})
			return
		}
		week := timetable.WeekStart(an.Now())
		s, err := db.GetWeeklySummary(r.Context(), database, studentID, week)
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no calendar summary for current week"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s)
	})

	mux.HandleFunc("GET /students/{id}/conflicts", func(w http.ResponseWriter, r *http.Request) {
		studentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad student id"})
			return
		}
		conflicts, err := db.ListUnresolvedConflicts(r.Context(), database, studentID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, conflicts)
	})

	mux.HandleFunc("GET /students/{id}/risk", func(w http.ResponseWriter, r *http.Request) {
		studentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad student id"})
			return
		}
		risk, err := db.GetActiveRisk(r.Context(), database, studentID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if risk == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active risk"})
			return
		}
		writeJSON(w, http.StatusOK, risk)
	})

	mux.HandleFunc("GET /report", func(w http.ResponseWriter, r *http.Request) {
		rep, err := report.BuildPortfolioReport(r.Context(), database, th)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rep)
	})

	mux.HandleFunc("GET /report.xlsx", func(w http.ResponseWriter, r *http.Request) {
		rep, err := report.BuildPortfolioReport(r.Context(), database, th)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		f, err := report.WriteExcel(rep)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="portfolio-report.xlsx"`)
		if err := f.Write(w); err != nil {
			log.Errorw("report export failed", "err", err)
		}
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe() // закрываем аккуратно при Shutdown
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
