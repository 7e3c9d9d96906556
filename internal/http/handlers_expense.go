package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gastos/internal/core"
	"gastos/internal/services"
	"gastos/internal/store"
)

type (
	listView struct {
		Flash *Flash
		Items []listItemView
	}

	listItemView struct {
		ID          int64
		Date        string
		Category    string
		Description string
		Amount      string
		Status      string
		Paid        bool
		DateValid   bool
	}

	formView struct {
		Flash      *Flash
		Title      string
		Action     string
		Categories []string
		Date       string
		Category   string
		Descr      string
		Amount     string
		Recurring  bool
		Editing    bool
	}
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items := s.expenses.ListExpenses(r.Context())
	view := listView{Flash: popFlash(w, r), Items: make([]listItemView, len(items))}
	for i, it := range items {
		view.Items[i] = listItemView{
			ID:          it.ID,
			Date:        it.DisplayDate,
			Category:    it.Category,
			Description: it.Description,
			Amount:      it.Amount.FormatBRL(),
			Status:      string(it.Status),
			Paid:        it.Status == core.StatusPaid,
			DateValid:   it.DateValid,
		}
	}
	s.render(w, r, "expenses.html", view)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "expense_form.html", formView{
			Flash:      popFlash(w, r),
			Title:      "Add expense",
			Action:     "/expenses/new",
			Categories: s.expenses.Categories(r.Context()),
		})
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := inputFromForm(r)
	n, err := s.expenses.Create(r.Context(), in)
	if err != nil {
		if isUserError(err) {
			setFlash(w, "warning", userMessage(err))
			http.Redirect(w, r, "/expenses/new", http.StatusSeeOther)
			return
		}
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		setFlash(w, "danger", "Could not save the expense.")
		http.Redirect(w, r, "/expenses/new", http.StatusSeeOther)
		return
	}

	if n > 1 {
		setFlash(w, "success", fmt.Sprintf("Expense added and replicated into %d monthly entries.", n))
	} else {
		setFlash(w, "success", "Expense added.")
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		setFlash(w, "danger", "Item not found.")
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, found := s.expenses.Get(r.Context(), id)
		if !found {
			setFlash(w, "danger", "Item not found.")
			http.Redirect(w, r, "/expenses", http.StatusSeeOther)
			return
		}
		date := rec.RawDate
		if !rec.Date.IsZero() {
			date = rec.Date.String()
		}
		s.render(w, r, "expense_form.html", formView{
			Flash:      popFlash(w, r),
			Title:      "Edit expense",
			Action:     "/expenses/edit?id=" + strconv.FormatInt(id, 10),
			Categories: s.expenses.Categories(r.Context()),
			Date:       date,
			Category:   rec.Category,
			Descr:      rec.Description,
			Amount:     rec.Amount.String(),
			Editing:    true,
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		err := s.expenses.Update(r.Context(), id, inputFromForm(r))
		switch {
		case err == nil:
			setFlash(w, "success", "Expense updated.")
		case errors.Is(err, store.ErrNotFound):
			setFlash(w, "danger", "Item not found.")
		case isUserError(err):
			setFlash(w, "warning", userMessage(err))
			http.Redirect(w, r, "/expenses/edit?id="+strconv.FormatInt(id, 10), http.StatusSeeOther)
			return
		default:
			slog.ErrorContext(r.Context(), "Update expense failed", "error", err, "id", id)
			setFlash(w, "danger", "Could not update the expense.")
		}
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := parseID(r)
	if !ok {
		setFlash(w, "danger", "Item not found.")
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}
	err := s.expenses.Delete(r.Context(), id)
	switch {
	case err == nil:
		setFlash(w, "info", "Expense deleted.")
	case errors.Is(err, store.ErrNotFound):
		setFlash(w, "danger", "Item not found.")
	default:
		slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "id", id)
		setFlash(w, "danger", "Could not delete the expense.")
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := parseID(r)
	if !ok {
		setFlash(w, "danger", "Item not found.")
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}
	status, err := s.expenses.ToggleStatus(r.Context(), id)
	switch {
	case err == nil:
		setFlash(w, "success", fmt.Sprintf("Expense marked as %s.", strings.ToLower(string(status))))
	case errors.Is(err, store.ErrNotFound):
		setFlash(w, "danger", "Item not found.")
	default:
		slog.ErrorContext(r.Context(), "Toggle status failed", "error", err, "id", id)
		setFlash(w, "danger", "Could not change the status.")
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	if name == "" {
		setFlash(w, "warning", "Category name is required.")
		http.Redirect(w, r, "/expenses/new", http.StatusSeeOther)
		return
	}
	if err := s.expenses.AddCategory(r.Context(), name); err != nil {
		slog.ErrorContext(r.Context(), "Add category failed", "error", err, "name", name)
		setFlash(w, "danger", "Could not save the category.")
	} else {
		setFlash(w, "success", "Category added.")
	}
	http.Redirect(w, r, "/expenses/new", http.StatusSeeOther)
}

func inputFromForm(r *http.Request) core.Input {
	category := sanitizeInput(r.Form.Get("category"))
	// The picker offers "_other" plus a free-text field, mirroring the
	// original form.
	if category == "_other" {
		if other := sanitizeInput(r.Form.Get("category_other")); other != "" {
			category = other
		}
	}
	return core.Input{
		Date:        strings.TrimSpace(r.Form.Get("date")),
		Category:    category,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      strings.TrimSpace(r.Form.Get("amount")),
		Status:      strings.TrimSpace(r.Form.Get("status")),
		Recurring:   r.Form.Get("recurring") != "",
	}
}

func parseID(r *http.Request) (int64, bool) {
	v := r.URL.Query().Get("id")
	if v == "" {
		v = r.FormValue("id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func isUserError(err error) bool {
	return errors.Is(err, core.ErrMissingDate) ||
		errors.Is(err, core.ErrMissingCategory) ||
		errors.Is(err, core.ErrMissingAmount) ||
		errors.Is(err, services.ErrInvalidRecurrenceDate)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidRecurrenceDate):
		return "A recurring expense needs a valid date."
	default:
		return "Fill in date, category and amount."
	}
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
