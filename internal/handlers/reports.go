package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/GMouaad/waqt/internal/model"
	"github.com/GMouaad/waqt/internal/report"
)

// ReportsHandler serves week and month summaries
type ReportsHandler struct {
	engine *report.Engine
}

func NewReportsHandler(engine *report.Engine) *ReportsHandler {
	return &ReportsHandler{engine: engine}
}

// Week returns the summary of the ISO week containing the given date
// (today when omitted)
func (h *ReportsHandler) Week(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation(model.DateFormat, v, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "date must be YYYY-MM-DD", r))
			return
		}
		date = parsed
	}

	summary, err := h.engine.WeekOf(date)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Month returns the summary of a calendar month (the current one when
// omitted). With format=pdf or an application/pdf Accept header the
// timesheet is streamed as a PDF instead.
func (h *ReportsHandler) Month(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := time.ParseInLocation("2006-01", v, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "month must be YYYY-MM", r))
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}

	summary, err := h.engine.MonthOf(year, month)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" ||
		strings.Contains(r.Header.Get("Accept"), "application/pdf") {
		var buf bytes.Buffer
		if err := report.WriteMonthPDF(&buf, summary); err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="timesheet-%s.pdf"`, summary.Month))
		w.Write(buf.Bytes())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
