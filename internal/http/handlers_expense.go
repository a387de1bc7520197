package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"tracker/internal/core"
	"tracker/internal/store"
)

// parseExpenseForm builds an Expense from submitted form fields. The second
// return value is a user-facing message; it is empty when the form is valid.
func parseExpenseForm(form url.Values) (core.Expense, string) {
	date, err := core.ParseDate(form.Get("date"))
	if err != nil {
		return core.Expense{}, "Invalid date"
	}

	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return core.Expense{}, "Invalid amount"
	}

	e := core.Expense{
		Date:          date,
		Category:      sanitizeInput(form.Get("category")),
		Description:   sanitizeInput(form.Get("description")),
		Amount:        core.Money{Cents: cents},
		PaymentMethod: sanitizeInput(form.Get("payment_method")),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, "Invalid data: " + err.Error()
	}
	return e, ""
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Malformed request</div>`))
		return
	}

	exp, msg := parseExpenseForm(r.Form)
	if msg != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
		return
	}

	id, err := s.expWriter.Insert(r.Context(), exp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			"error", err,
			"category", exp.Category,
			"amount_cents", exp.Amount.Cents,
			"operation", "insert")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error saving expense</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"id", id,
		"category", exp.Category,
		"amount_cents", exp.Amount.Cents,
		"operation", "create")

	setTrigger(w, "expense:created")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Expense recorded (#` + strconv.FormatInt(id, 10) + `): ` +
		template.HTMLEscapeString(exp.Category) + ` — ` +
		template.HTMLEscapeString(exp.Amount.String()) + `</div>`))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Malformed request</div>`))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid record id</div>`))
		return
	}

	exp, msg := parseExpenseForm(r.Form)
	if msg != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
		return
	}
	exp.ID = id

	if err := s.expMutator.UpdateExpense(r.Context(), exp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Stale view; refresh so the missing record disappears.
			setTrigger(w, "expense:updated")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`<div class="error">Record #` + strconv.FormatInt(id, 10) + ` no longer exists</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err, "id", id, "operation", "update")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error updating expense</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Expense updated", "id", id, "operation", "update")

	setTrigger(w, "expense:updated")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Expense #` + strconv.FormatInt(id, 10) + ` updated</div>`))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Malformed request</div>`))
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid record id</div>`))
		return
	}

	if err := s.expMutator.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			setTrigger(w, "expense:deleted")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`<div class="error">Record #` + strconv.FormatInt(id, 10) + ` no longer exists</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "id", id, "operation", "delete")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error deleting expense</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Expense deleted", "id", id, "operation", "delete")

	setTrigger(w, "expense:deleted")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Expense #` + strconv.FormatInt(id, 10) + ` deleted</div>`))
}

// setTrigger emits an HX-Trigger header so listening containers re-query
// the store and redraw.
func setTrigger(w http.ResponseWriter, event string) {
	payload, err := json.Marshal(map[string]any{event: map[string]any{}})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}
