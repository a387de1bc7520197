package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tracker/internal/core"
	"tracker/internal/store"
)

// queryTimeout bounds the partial handlers so a wedged database file cannot
// hang the page.
const queryTimeout = 7 * time.Second

// handleIndex renders the main page: entry form, filter controls, and the
// containers the partials load into.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stored, err := s.taxReader.Categories(ctx)
	if err != nil {
		// The page still renders with the default labels.
		slog.ErrorContext(ctx, "Category list error", "error", err)
	}

	data := struct {
		Today          string
		Categories     []string
		PaymentMethods []string
	}{
		Today:          time.Now().Format(core.DateLayout),
		Categories:     mergeLabels(core.DefaultCategories, stored),
		PaymentMethods: core.DefaultPaymentMethods,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSummary returns the KPI partial for the current filter.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	items, err := s.expLister.ListExpenses(ctx, parseFilter(r.URL.Query()))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err, "partial", "summary")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	top, _ := core.TopCategory(items)
	data := struct {
		HasData     bool
		Total       string
		Count       int
		TopCategory string
	}{
		HasData:     len(items) > 0,
		Total:       core.TotalSpend(items).String(),
		Count:       len(items),
		TopCategory: top,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "summary", data); err != nil {
		slog.ErrorContext(ctx, "Summary template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type expenseRow struct {
	ID            int64
	Date          string
	Category      string
	Description   string
	Amount        string
	PaymentMethod string
}

func toRows(items []core.Expense) []expenseRow {
	rows := make([]expenseRow, len(items))
	for i, e := range items {
		rows[i] = expenseRow{
			ID:            e.ID,
			Date:          e.Date.String(),
			Category:      e.Category,
			Description:   e.Description,
			Amount:        e.Amount.String(),
			PaymentMethod: e.PaymentMethod,
		}
	}
	return rows
}

// handleExpenseTable returns the record table partial for the current filter.
func (s *Server) handleExpenseTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	items, err := s.expLister.ListExpenses(ctx, parseFilter(r.URL.Query()))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err, "partial", "expense_table")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	data := struct {
		HasData bool
		Rows    []expenseRow
	}{
		HasData: len(items) > 0,
		Rows:    toRows(items),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "expense_table", data); err != nil {
		slog.ErrorContext(ctx, "Expense table template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleExpenseEditForm returns the inline edit form prefilled from the
// record. An empty id clears the editor panel.
func (s *Server) handleExpenseEditForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := parseID(idStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid record id</div>`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	exp, err := s.expLister.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`<div class="error">Record #` + strconv.FormatInt(id, 10) + ` no longer exists</div>`))
			return
		}
		slog.ErrorContext(ctx, "Failed to load expense", "error", err, "id", id, "partial", "expense_edit")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	stored, err := s.taxReader.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Category list error", "error", err)
	}

	data := struct {
		ID             int64
		Date           string
		Category       string
		Description    string
		Amount         string
		PaymentMethod  string
		Categories     []string
		PaymentMethods []string
	}{
		ID:             exp.ID,
		Date:           exp.Date.String(),
		Category:       exp.Category,
		Description:    exp.Description,
		Amount:         exp.Amount.String(),
		PaymentMethod:  exp.PaymentMethod,
		Categories:     mergeLabels(core.DefaultCategories, stored),
		PaymentMethods: core.DefaultPaymentMethods,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "expense_edit", data); err != nil {
		slog.ErrorContext(ctx, "Expense edit template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type barView struct {
	Label  string
	Amount string
	Width  int // percent of the widest bar
}

type chartPoint struct {
	X, Y int
}

type chartTick struct {
	X     int
	Label string
}

// Plot area of the monthly trend SVG, in viewBox units. Must match the
// viewBox and axis lines in charts.html.
const (
	plotLeft   = 40
	plotRight  = 620
	plotTop    = 16
	plotBottom = 208
)

// handleCharts returns the category bar chart and the monthly trend line
// for the current filter, rendered server-side.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	items, err := s.expLister.ListExpenses(ctx, parseFilter(r.URL.Query()))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err, "partial", "charts")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	bars := categoryBars(core.SumByCategory(items))
	points, dots, ticks := monthlyTrend(core.SumByMonth(items))

	data := struct {
		HasData bool
		Bars    []barView
		Points  string
		Dots    []chartPoint
		Ticks   []chartTick
	}{
		HasData: len(items) > 0,
		Bars:    bars,
		Points:  points,
		Dots:    dots,
		Ticks:   ticks,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "charts", data); err != nil {
		slog.ErrorContext(ctx, "Charts template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// categoryBars scales each category sum against the largest one.
func categoryBars(byCat []core.CategoryAmount) []barView {
	if len(byCat) == 0 {
		return nil
	}
	max := byCat[0].Amount.Cents // sorted descending
	bars := make([]barView, len(byCat))
	for i, ca := range byCat {
		width := int(ca.Amount.Cents * 100 / max)
		if width < 2 {
			width = 2
		}
		bars[i] = barView{Label: ca.Name, Amount: ca.Amount.String(), Width: width}
	}
	return bars
}

// monthlyTrend lays the month totals out on the SVG plot area.
func monthlyTrend(months []core.MonthTotal) (string, []chartPoint, []chartTick) {
	if len(months) == 0 {
		return "", nil, nil
	}

	var max int64
	for _, m := range months {
		if m.Total.Cents > max {
			max = m.Total.Cents
		}
	}

	xAt := func(i int) int {
		if len(months) == 1 {
			return (plotLeft + plotRight) / 2
		}
		return plotLeft + i*(plotRight-plotLeft)/(len(months)-1)
	}
	yAt := func(cents int64) int {
		return plotBottom - int(cents*int64(plotBottom-plotTop)/max)
	}

	var points string
	dots := make([]chartPoint, len(months))
	ticks := make([]chartTick, len(months))
	for i, m := range months {
		p := chartPoint{X: xAt(i), Y: yAt(m.Total.Cents)}
		dots[i] = p
		ticks[i] = chartTick{X: p.X, Label: m.Key()}
		if i > 0 {
			points += " "
		}
		points += strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
	}

	return points, dots, ticks
}
