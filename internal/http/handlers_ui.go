package http

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"cozypocket/internal/calendar"
	"cozypocket/internal/core"
	"cozypocket/internal/form"
	applog "cozypocket/internal/log"
)

// Form events posted to /ui/form as action=<name>[:<value>].
const (
	ActionSwitchType        = "switch-type"
	ActionSelectCategory    = "select-category"
	ActionSelectSubcategory = "select-subcategory"
	ActionBack              = "back"
	ActionCyclePayment      = "cycle-payment"
	ActionSetPayment        = "set-payment"
	ActionAssist            = "assist"
	ActionSubmit            = "submit"
	ActionRequestDelete     = "request-delete"
	ActionCancelDelete      = "cancel-delete"
	ActionConfirmDelete     = "confirm-delete"
	ActionClose             = "close"
	ActionRefresh           = "refresh"
)

func (s *Server) today() core.Date {
	return core.DateOf(s.now())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	today := s.today()
	date := ParseDateParam(r.URL.Query(), "date", today)
	data := pageView{
		Day:              buildDayView(s.ledger.Store().Snapshot(), date, today),
		AssistantEnabled: s.assistant.Enabled(),
	}
	s.render(w, r, NewHTMXResponse(), "index.html", data)
}

// handleDay renders the main panel. nav moves the cursor relative to date.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	today := s.today()
	q := r.URL.Query()
	cur := calendar.NewCursor(today).Jump(ParseDateParam(q, "date", today))
	cur = navigate(cur, q.Get("nav"), today)

	s.render(w, r, NewHTMXResponse(), "day", buildDayView(s.ledger.Store().Snapshot(), cur.Selected(), today))
}

func (s *Server) handleFormNew(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	date := ParseDateParam(r.URL.Query(), "date", s.today())
	s.renderForm(w, r, NewHTMXResponse(), form.NewCreate(date, s.now()))
}

func (s *Server) handleFormEdit(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	tx, ok := s.ledger.Store().Get(id)
	if !ok {
		NotFoundError("That entry no longer exists.").
			TriggerLedgerChanged(s.today()).
			Write(w)
		return
	}
	s.renderForm(w, r, NewHTMXResponse(), form.NewEdit(tx))
}

// handleFormEvent rebuilds the entry form from the posted fields, applies one
// event and renders the next state. Submit and delete close the modal and
// ask the page to refresh.
func (s *Server) handleFormEvent(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	action, value, _ := strings.Cut(r.PostForm.Get("action"), ":")
	if action == ActionClose {
		NewHTMXResponse().TriggerFormClosed().BodyHTML("").Write(w)
		return
	}

	f, err := form.FromValues(r.PostForm)
	if err != nil {
		f.Error = "Pick a valid date."
		atomic.AddInt64(&s.metrics.validationErrors, 1)
		s.renderForm(w, r, NewHTMXResponse().Status(http.StatusUnprocessableEntity), f)
		return
	}

	ctx := r.Context()
	switch action {
	case ActionSwitchType:
		if t, err := core.ParseType(value); err == nil {
			f = f.SwitchType(t)
		}
	case ActionSelectCategory:
		f = f.SelectCategory(value)
	case ActionSelectSubcategory:
		f = f.SelectSubcategory(value)
	case ActionBack:
		f = f.Back()
	case ActionCyclePayment:
		f = f.CyclePaymentMethod()
	case ActionSetPayment:
		if p, err := core.ParsePaymentMethod(value); err == nil {
			f = f.SetPaymentMethod(p)
		}
	case ActionAssist:
		f = s.assist(ctx, f)
	case ActionSubmit:
		next, res, err := f.Submit(ctx, s.ledger)
		if err != nil {
			atomic.AddInt64(&s.metrics.validationErrors, 1)
			s.renderForm(w, r, NewHTMXResponse().Status(http.StatusUnprocessableEntity), next)
			return
		}
		s.finish(w, r, res, next.Date)
		return
	case ActionRequestDelete:
		next, err := f.RequestDelete()
		if err != nil {
			BadRequestError("Only saved entries can be deleted.").Write(w)
			return
		}
		f = next
	case ActionCancelDelete:
		f = f.CancelDelete()
	case ActionConfirmDelete:
		next, res, err := f.ConfirmDelete(ctx, s.ledger)
		if err != nil {
			BadRequestError("Confirm the delete first.").Write(w)
			return
		}
		s.finish(w, r, res, next.Date)
		return
	case "", ActionRefresh:
	default:
		BadRequestError("Unknown form action").Write(w)
		return
	}

	s.renderForm(w, r, NewHTMXResponse(), f)
}

// assist asks the parsing assistant for a guess. Any failure leaves the
// form exactly as it was.
func (s *Server) assist(ctx context.Context, f form.Form) form.Form {
	if !s.assistant.Enabled() {
		return f
	}
	atomic.AddInt64(&s.metrics.assistantRequests, 1)
	suggestion, ok := s.assistant.Suggest(ctx, f.AssistantText())
	if !ok {
		return f
	}
	atomic.AddInt64(&s.metrics.assistantHits, 1)
	return f.ApplySuggestion(suggestion)
}

// finish closes the modal after a submit or delete.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, res form.Result, date core.Date) {
	s.recordResult(r.Context(), res)

	b := NewHTMXResponse().
		TriggerLedgerChanged(date).
		TriggerFormClosed().
		BodyHTML("")
	switch {
	case !res.Applied:
		b.TriggerWarningNotification("That entry no longer exists.")
	case res.Action == form.Deleted:
		b.TriggerSuccessNotification("Entry deleted")
	default:
		b.TriggerSuccessNotification("Entry saved")
	}
	b.Write(w)
}

// recordResult counts and logs a completed mutation.
func (s *Server) recordResult(ctx context.Context, res form.Result) {
	if !res.Applied {
		applog.FromContext(ctx).WarnContext(ctx, "Mutation ignored, transaction not found",
			applog.FieldTransactionID, res.Transaction.ID,
			applog.FieldOperation, string(res.Action))
		return
	}

	op := applog.OpCreate
	switch res.Action {
	case form.Created:
		atomic.AddInt64(&s.metrics.created, 1)
	case form.Updated:
		op = applog.OpUpdate
		atomic.AddInt64(&s.metrics.updated, 1)
	case form.Deleted:
		op = applog.OpDelete
		atomic.AddInt64(&s.metrics.deleted, 1)
	}

	tx := res.Transaction
	fields := applog.NewFields().WithRequestID(requestID(ctx))
	if res.Action == form.Deleted {
		fields[applog.FieldTransactionID] = tx.ID
	} else {
		fields = fields.WithTransaction(tx.ID, string(tx.Type), tx.Amount.String(),
			tx.CategoryID, tx.SubCategoryID, tx.Date.String())
	}
	s.events.LogTransactionChanged(ctx, op, fields)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, f form.Form) {
	s.render(w, r, b, "form", buildFormView(f, s.assistant.Enabled()))
}

// render executes a template into a buffer first so a failing template
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path)
		InternalServerError("Templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.events.LogError(r.Context(), "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender, applog.NewFields().WithRequestID(requestID(r.Context())))
		InternalServerError("Something went wrong rendering this page").Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}
