package http

import (
	"log/slog"
	"net/http"

	"gastos/internal/core"
)

type (
	amountRow struct {
		Label  string
		Amount string
		Width  int // percent of the largest row, for the bar chart
	}

	dashboardView struct {
		Flash             *Flash
		CurrentMonthTotal string
		CurrentYearTotal  string
		Months            []amountRow
		Categories        []amountRow
		PaidTotal         string
		PendingTotal      string
		PaidCount         int
		PendingCount      int
	}
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	d := s.expenses.GetDashboard(r.Context())
	view := dashboardView{
		Flash:             popFlash(w, r),
		CurrentMonthTotal: d.Summary.CurrentMonthTotal.FormatBRL(),
		CurrentYearTotal:  d.Summary.CurrentYearTotal.FormatBRL(),
		Months:            amountRows(monthLabels(d.Summary.Months)),
		Categories:        amountRows(categoryLabels(d.Summary.Categories)),
		PaidTotal:         d.Summary.Status.PaidTotal.FormatBRL(),
		PendingTotal:      d.Summary.Status.PendingTotal.FormatBRL(),
		PaidCount:         d.Summary.Status.PaidCount,
		PendingCount:      d.Summary.Status.PendingCount,
	}

	s.render(w, r, "dashboard.html", view)
}

type labelled struct {
	Label string
	Money core.Money
}

func monthLabels(months []core.MonthTotal) []labelled {
	out := make([]labelled, len(months))
	for i, m := range months {
		out[i] = labelled{Label: m.Month, Money: m.Total}
	}
	return out
}

func categoryLabels(categories []core.CategoryTotal) []labelled {
	out := make([]labelled, len(categories))
	for i, c := range categories {
		out[i] = labelled{Label: c.Name, Money: c.Total}
	}
	return out
}

// amountRows formats rows and scales bar widths against the largest
// absolute amount, keeping tiny non-zero rows visible.
func amountRows(rows []labelled) []amountRow {
	var maxCents int64
	for _, r := range rows {
		c := r.Money.Cents
		if c < 0 {
			c = -c
		}
		if c > maxCents {
			maxCents = c
		}
	}
	out := make([]amountRow, len(rows))
	for i, r := range rows {
		width := 0
		c := r.Money.Cents
		if c < 0 {
			c = -c
		}
		if maxCents > 0 && c > 0 {
			width = int((c*100 + maxCents/2) / maxCents)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		out[i] = amountRow{Label: r.Label, Amount: r.Money.FormatBRL(), Width: width}
	}
	return out
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
