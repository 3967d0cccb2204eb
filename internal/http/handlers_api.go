package http

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"cozypocket/internal/calendar"
	"cozypocket/internal/core"
	"cozypocket/internal/form"
	"cozypocket/internal/middleware/trace"
	"cozypocket/internal/taxonomy"
	"cozypocket/internal/views"
)

func requestID(ctx context.Context) string {
	return trace.GetRequestID(ctx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.ledger.Store().Snapshot()
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// handleCreateTransaction accepts the same fields as the stored record,
// as JSON or form data, and runs them through the entry form rules.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if !s.parseTransactionBody(w, p) {
		return
	}

	base := form.NewCreate(s.today(), s.now()).Values()
	f, err := form.FromValues(p.TransactionValues(base))
	if err != nil {
		atomic.AddInt64(&s.metrics.validationErrors, 1)
		writeJSONError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	next, res, err := f.Submit(r.Context(), s.ledger)
	if err != nil {
		atomic.AddInt64(&s.metrics.validationErrors, 1)
		writeJSONError(w, http.StatusUnprocessableEntity, next.Error)
		return
	}
	s.recordResult(r.Context(), res)
	writeJSON(w, http.StatusCreated, res.Transaction)
}

// handleUpdateTransaction patches the fields present in the body onto the
// stored record.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := s.ledger.Store().Get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "transaction not found")
		return
	}
	p := NewRequestBodyParser(r)
	if !s.parseTransactionBody(w, p) {
		return
	}

	f, err := form.FromValues(p.TransactionValues(form.NewEdit(existing).Values()))
	if err != nil {
		atomic.AddInt64(&s.metrics.validationErrors, 1)
		writeJSONError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	next, res, err := f.Submit(r.Context(), s.ledger)
	if err != nil {
		atomic.AddInt64(&s.metrics.validationErrors, 1)
		writeJSONError(w, http.StatusUnprocessableEntity, next.Error)
		return
	}
	s.recordResult(r.Context(), res)
	if !res.Applied {
		writeJSONError(w, http.StatusNotFound, "transaction not found")
		return
	}
	updated, _ := s.ledger.Store().Get(id)
	writeJSON(w, http.StatusOK, updated)
}

// parseTransactionBody rejects bodies the entry form would otherwise
// silently repair: FromValues falls back to defaults for an unknown type or
// payment method.
func (s *Server) parseTransactionBody(w http.ResponseWriter, p *RequestBodyParser) bool {
	if err := p.Parse(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	if p.Has("type") {
		if _, err := core.ParseType(p.Get("type")); err != nil {
			atomic.AddInt64(&s.metrics.validationErrors, 1)
			writeJSONError(w, http.StatusUnprocessableEntity, core.ErrInvalidType.Error())
			return false
		}
	}
	if p.Has("paymentMethod") {
		if _, err := core.ParsePaymentMethod(p.Get("paymentMethod")); err != nil {
			atomic.AddInt64(&s.metrics.validationErrors, 1)
			writeJSONError(w, http.StatusUnprocessableEntity, core.ErrInvalidPaymentMethod.Error())
			return false
		}
	}
	return true
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res := form.Result{
		Action:      form.Deleted,
		Transaction: core.Transaction{ID: id},
		Applied:     s.ledger.Delete(r.Context(), id),
	}
	s.recordResult(r.Context(), res)
	if !res.Applied {
		writeJSONError(w, http.StatusNotFound, "transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := ParseDateParam(r.URL.Query(), "date", s.today())
	txs := views.Daily(s.ledger.Store().Snapshot(), date)
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":         date,
		"transactions": txs,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	date := ParseDateParam(r.URL.Query(), "date", s.today())
	txs := s.ledger.Store().Snapshot()
	overview := views.Overview(txs, date)
	writeJSON(w, http.StatusOK, map[string]any{
		"year":              overview.Year,
		"month":             overview.Month,
		"income":            overview.Stats.Income,
		"expense":           overview.Stats.Expense,
		"balance":           overview.Stats.Balance(),
		"expenseByCategory": overview.ByCategory,
		"incomeByCategory":  views.Breakdown(txs, date, core.Income),
	})
}

type calendarDay struct {
	Date     core.Date `json:"date"`
	InMonth  bool      `json:"inMonth"`
	Selected bool      `json:"selected"`
	Today    bool      `json:"today"`
	Weekend  bool      `json:"weekend"`
	Marked   bool      `json:"marked"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	q := r.URL.Query()
	cur := navigate(calendar.NewCursor(today).Jump(ParseDateParam(q, "date", today)), q.Get("nav"), today)
	days := views.Days(s.ledger.Store().Snapshot())
	grid := calendar.BuildGrid(cur.Selected(), today, days.Has)

	weeks := make([][]calendarDay, 0, len(grid.Weeks))
	for _, week := range grid.Weeks {
		row := make([]calendarDay, 0, len(week))
		for _, d := range week {
			row = append(row, calendarDay{
				Date:     d.Date,
				InMonth:  d.InMonth,
				Selected: d.Selected,
				Today:    d.Today,
				Weekend:  d.Weekend,
				Marked:   d.Marked,
			})
		}
		weeks = append(weeks, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"title":    grid.Title(),
		"selected": grid.Selected,
		"prev":     grid.Prev(),
		"next":     grid.Next(),
		"weekdays": calendar.WeekdayLabels(),
		"weeks":    weeks,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		writeJSON(w, http.StatusOK, taxonomy.All())
		return
	}
	t, err := core.ParseType(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, taxonomy.ForType(t))
}

// handleAssistantParse returns the assistant's advisory guess for text.
// A failed call is not an error: ok is false and the suggestion empty.
func (s *Server) handleAssistantParse(w http.ResponseWriter, r *http.Request) {
	if !s.assistant.Enabled() {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	text := p.Get("text")
	if text == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}

	atomic.AddInt64(&s.metrics.assistantRequests, 1)
	suggestion, ok := s.assistant.Suggest(r.Context(), text)
	if ok {
		atomic.AddInt64(&s.metrics.assistantHits, 1)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         ok,
		"suggestion": suggestion,
	})
}
