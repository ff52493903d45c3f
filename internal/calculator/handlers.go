package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sumtutor/internal/addition"
	"sumtutor/internal/handlers"
	"sumtutor/internal/history"
	"sumtutor/internal/observability"
	"sumtutor/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Service serves the column-addition engine over HTTP.
type Service struct {
	sessions     *session.Registry
	history      history.Store
	narrator     addition.Narrator
	historyLimit int
	now          func() time.Time
	phraseSeq    atomic.Int64
}

// NewService wires the handlers to their session registry and history store.
func NewService(sessions *session.Registry, store history.Store, narrator addition.Narrator, historyLimit int) *Service {
	return &Service{
		sessions:     sessions,
		history:      store,
		narrator:     narrator,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// errorStatus maps engine and storage errors to an HTTP status and message.
func errorStatus(err error) (int, string) {
	var (
		invalid      *addition.InvalidOperandError
		insufficient *addition.InsufficientOperandsError
		concurrent   *session.ConcurrentCalculationError
	)
	switch {
	case errors.As(err, &invalid), errors.As(err, &insufficient), errors.Is(err, session.ErrOperandOutOfRange):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &concurrent):
		return http.StatusConflict, "calculation already in progress"
	case errors.Is(err, session.ErrNotStepping), errors.Is(err, session.ErrNotComplete):
		return http.StatusConflict, err.Error()
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// request bundles the per-request observability handles.
type request struct {
	ctx       context.Context
	span      trace.Span
	logger    *zap.Logger
	requestID string
	opName    string
	w         http.ResponseWriter
	r         *http.Request
}

// begin starts the operation span the way every handler does.
func begin(w http.ResponseWriter, r *http.Request, opName string, attrs ...attribute.KeyValue) *request {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	attrs = append(attrs,
		attribute.String("calculator.operation", opName),
		attribute.String("request.id", requestID),
	)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName), trace.WithAttributes(attrs...))

	return &request{ctx: ctx, span: span, logger: logger, requestID: requestID, opName: opName, w: w, r: r}
}

func (q *request) fail(err error) {
	status, msg := errorStatus(err)
	observability.RecordError(q.ctx, q.span, q.logger, errorCounter, q.opName, msg, err, status, q.w)
}

func (q *request) failWith(status int, msg string, err error) {
	observability.RecordError(q.ctx, q.span, q.logger, errorCounter, q.opName, msg, err, status, q.w)
}

func (q *request) decode(dst any) bool {
	if err := json.NewDecoder(q.r.Body).Decode(dst); err != nil {
		q.failWith(http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func (q *request) ok(status int, v any) {
	q.span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(q.w, status, v)
}

func (s *Service) session(q *request) (*session.Session, bool) {
	id := chi.URLParam(q.r, "id")
	q.span.SetAttributes(attribute.String("session.id", id))

	sess, err := s.sessions.Get(id)
	if err != nil {
		q.fail(err)
		return nil, false
	}
	return sess, true
}

func operandIndex(q *request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(q.r, "index"))
	if err != nil {
		q.failWith(http.StatusBadRequest, "invalid operand index", err)
		return 0, false
	}
	return index, true
}

func recordFrame(ctx context.Context, frame session.Frame) {
	kind := "column"
	if frame.Step.IsFinalCarry {
		kind = "final_carry"
	}
	stepCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	if frame.Step.CarryOut > 0 {
		carryCounter.Add(ctx, 1)
	}
}

// saveHistory stores a finished calculation. History is best effort: a
// failed save is logged and the calculation goes on.
func (s *Service) saveHistory(q *request, result addition.CalculationResult) string {
	calc := history.NewCalculation(result, s.now())
	if err := s.history.Save(q.ctx, calc); err != nil {
		q.span.AddEvent("history.save_failed", trace.WithAttributes(attribute.String("error", err.Error())))
		q.logger.Warn("saving calculation to history failed",
			zap.Error(err),
			zap.String("request_id", q.requestID),
		)
		return ""
	}
	return calc.ID
}

// ---------------------------------------------------------------------------
// Handler — eager calculation
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add: aligns the operands, produces every step
// with its narration and stores the result in history.
func (s *Service) Add(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "add")
	defer q.span.End()

	var req AddRequest
	if !q.decode(&req) {
		return
	}

	start := time.Now()
	result, steps, err := addition.Calculate(req.Operands)
	if err != nil {
		q.fail(err)
		return
	}
	frames := session.Frames(s.narrator, result.Aligned, steps, false)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("operation", q.opName))
	calcCounter.Add(q.ctx, 1, attrs)
	opsHistogram.Record(q.ctx, elapsed, attrs)
	operandsGauge.Record(q.ctx, int64(len(req.Operands)))
	for _, f := range frames {
		recordFrame(q.ctx, f)
	}

	q.span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", result.ResultString),
		attribute.Int("steps", len(steps)),
		attribute.Float64("duration_ms", elapsed),
	))
	q.span.SetAttributes(
		attribute.Int("calculator.operands", len(req.Operands)),
		attribute.String("calculator.result", result.ResultString),
	)

	id := s.saveHistory(q, result)

	q.logger.Info("column addition completed",
		zap.Strings("operands", req.Operands),
		zap.String("result", result.ResultString),
		zap.Int("steps", len(steps)),
		zap.Int("decimal_position", result.Aligned.DecimalPosition),
		zap.String("request_id", q.requestID),
		zap.Float64("duration_ms", elapsed),
	)

	q.ok(http.StatusOK, AddResponse{
		ID:       id,
		Operands: result.Aligned.OriginalOperands,
		Aligned:  result.Aligned,
		Steps:    frames,
		Result:   result.ResultString,
		Equation: addition.FormatEquation(result.Aligned.OriginalOperands, result.ResultString),
	})
}

// ---------------------------------------------------------------------------
// Handlers — stepping sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions.
func (s *Service) CreateSession(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "session.create")
	defer q.span.End()

	sess, err := s.sessions.Create()
	if err != nil {
		q.fail(err)
		return
	}
	sessionsGauge.Record(q.ctx, int64(s.sessions.Len()))

	q.logger.Info("session created",
		zap.String("session_id", sess.ID()),
		zap.String("request_id", q.requestID),
	)
	q.ok(http.StatusCreated, sess.Snapshot())
}

// GetSession handles GET /calculator/sessions/{id}.
func (s *Service) GetSession(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "session.get")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	q.ok(http.StatusOK, sess.Snapshot())
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (s *Service) DeleteSession(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "session.delete")
	defer q.span.End()

	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		q.fail(err)
		return
	}
	sessionsGauge.Record(q.ctx, int64(s.sessions.Len()))

	q.span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

// SetOperands handles PUT /calculator/sessions/{id}/operands.
func (s *Service) SetOperands(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "operands.set")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	var req OperandsRequest
	if !q.decode(&req) {
		return
	}
	if err := sess.SetOperands(req.Operands); err != nil {
		q.fail(err)
		return
	}
	q.ok(http.StatusOK, sess.Snapshot())
}

// AddOperand handles POST /calculator/sessions/{id}/operands.
func (s *Service) AddOperand(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "operands.add")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	var req OperandRequest
	if !q.decode(&req) {
		return
	}
	if err := sess.AddOperand(req.Value); err != nil {
		q.fail(err)
		return
	}
	q.ok(http.StatusOK, sess.Snapshot())
}

// EditOperand handles PATCH /calculator/sessions/{id}/operands/{index}.
func (s *Service) EditOperand(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "operands.edit")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	index, ok := operandIndex(q)
	if !ok {
		return
	}
	var req OperandRequest
	if !q.decode(&req) {
		return
	}
	if err := sess.EditOperand(index, req.Value); err != nil {
		q.fail(err)
		return
	}
	q.ok(http.StatusOK, sess.Snapshot())
}

// RemoveOperand handles DELETE /calculator/sessions/{id}/operands/{index}.
func (s *Service) RemoveOperand(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "operands.remove")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	index, ok := operandIndex(q)
	if !ok {
		return
	}
	if err := sess.RemoveOperand(index); err != nil {
		q.fail(err)
		return
	}
	q.ok(http.StatusOK, sess.Snapshot())
}

// Start handles POST /calculator/sessions/{id}/start. The exact result is
// stored in history before the first step is produced.
func (s *Service) Start(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "start")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}

	result, err := sess.Start(q.ctx)
	if err != nil {
		q.fail(err)
		return
	}

	aligned := result.Aligned
	calcCounter.Add(q.ctx, 1, metric.WithAttributes(attribute.String("operation", q.opName)))
	operandsGauge.Record(q.ctx, int64(len(aligned.PaddedDigits)))

	id := s.saveHistory(q, result)

	columns := make([]ColumnResponse, aligned.Width())
	for i := range columns {
		columns[i] = ColumnResponse{
			Index:    i,
			Decimals: aligned.DecimalPosition,
			Name:     addition.ColumnName(i, aligned.DecimalPosition),
			Label:    addition.ColumnLabel(i, aligned.DecimalPosition),
		}
	}

	q.span.SetAttributes(
		attribute.Int("calculator.operands", len(aligned.PaddedDigits)),
		attribute.Int("calculator.columns", aligned.Width()),
		attribute.String("calculator.result", result.ResultString),
	)
	q.logger.Info("stepping started",
		zap.String("session_id", sess.ID()),
		zap.Strings("padded_digits", aligned.PaddedDigits),
		zap.String("result", result.ResultString),
		zap.String("request_id", q.requestID),
	)

	q.ok(http.StatusOK, StartResponse{
		SessionID:     sess.ID(),
		CalculationID: id,
		Aligned:       aligned,
		Result:        result.ResultString,
		Columns:       columns,
	})
}

// Next handles POST /calculator/sessions/{id}/next. The caller decides the
// pace; each call produces exactly one step.
func (s *Service) Next(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "next")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}

	frame, err := sess.Next(q.ctx)
	if err != nil {
		q.fail(err)
		return
	}
	recordFrame(q.ctx, frame)

	q.span.AddEvent("step.complete", trace.WithAttributes(
		attribute.Int("column", frame.Step.ColumnIndex),
		attribute.Int("sum", frame.Step.Sum),
		attribute.Int("carry_out", frame.Step.CarryOut),
	))
	q.logger.Info("column step produced",
		zap.String("session_id", sess.ID()),
		zap.Int("column", frame.Step.ColumnIndex),
		zap.Ints("digits", frame.Step.Digits),
		zap.Int("carry_in", frame.Step.CarryIn),
		zap.Int("sum", frame.Step.Sum),
		zap.Int("result_digit", frame.Step.ResultDigit),
		zap.Int("carry_out", frame.Step.CarryOut),
		zap.Bool("final_carry", frame.Step.IsFinalCarry),
		zap.String("request_id", q.requestID),
	)

	q.ok(http.StatusOK, FrameResponse{SessionID: sess.ID(), Phase: sess.Phase(), Frame: frame})
}

// Replay handles POST /calculator/sessions/{id}/replay.
func (s *Service) Replay(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "replay")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	if err := sess.Replay(q.ctx); err != nil {
		q.fail(err)
		return
	}
	q.logger.Info("replay started",
		zap.String("session_id", sess.ID()),
		zap.String("request_id", q.requestID),
	)
	q.ok(http.StatusOK, sess.Snapshot())
}

// Reset handles POST /calculator/sessions/{id}/reset.
func (s *Service) Reset(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "reset")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	sess.Reset()
	q.ok(http.StatusOK, sess.Snapshot())
}

// Load handles POST /calculator/sessions/{id}/load/{calcID}: shows a stored
// calculation without re-deriving its padding.
func (s *Service) Load(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "load")
	defer q.span.End()

	sess, ok := s.session(q)
	if !ok {
		return
	}
	calc, err := s.history.Get(q.ctx, chi.URLParam(r, "calcID"))
	if err != nil {
		q.fail(err)
		return
	}
	if err := sess.Load(calc.CalculationResult()); err != nil {
		q.fail(err)
		return
	}
	q.ok(http.StatusOK, sess.Snapshot())
}

// ---------------------------------------------------------------------------
// Handlers — history and lookups
// ---------------------------------------------------------------------------

// ListHistory handles GET /calculator/history.
func (s *Service) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "history.list")
	defer q.span.End()

	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			q.failWith(http.StatusBadRequest, "invalid limit", fmt.Errorf("limit %q", raw))
			return
		}
		limit = min(n, s.historyLimit)
	}

	calcs, err := s.history.List(q.ctx, limit)
	if err != nil {
		q.fail(err)
		return
	}

	entries := make([]HistoryEntry, len(calcs))
	for i, c := range calcs {
		entries[i] = HistoryEntry{Calculation: c, Equation: c.Equation()}
	}
	q.ok(http.StatusOK, entries)
}

// GetHistory handles GET /calculator/history/{calcID}.
func (s *Service) GetHistory(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "history.get")
	defer q.span.End()

	calc, err := s.history.Get(q.ctx, chi.URLParam(r, "calcID"))
	if err != nil {
		q.fail(err)
		return
	}

	aligned := calc.Aligned()
	q.ok(http.StatusOK, HistoryDetail{
		HistoryEntry: HistoryEntry{Calculation: calc, Equation: calc.Equation()},
		Steps:        session.Frames(s.narrator, aligned, addition.ComputeSteps(aligned), true),
	})
}

// Column handles GET /calculator/columns/{index}?decimals=N.
func (s *Service) Column(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "column")
	defer q.span.End()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		q.failWith(http.StatusBadRequest, "invalid column index", fmt.Errorf("index %q", chi.URLParam(r, "index")))
		return
	}
	decimals := 0
	if raw := r.URL.Query().Get("decimals"); raw != "" {
		decimals, err = strconv.Atoi(raw)
		if err != nil || decimals < 0 {
			q.failWith(http.StatusBadRequest, "invalid decimals", fmt.Errorf("decimals %q", raw))
			return
		}
	}

	q.ok(http.StatusOK, ColumnResponse{
		Index:    index,
		Decimals: decimals,
		Name:     addition.ColumnName(index, decimals),
		Label:    addition.ColumnLabel(index, decimals),
	})
}

// Motivation handles GET /calculator/motivation?audience=kid|adult.
func (s *Service) Motivation(w http.ResponseWriter, r *http.Request) {
	q := begin(w, r, "motivation")
	defer q.span.End()

	audience := addition.Audience(r.URL.Query().Get("audience"))
	if audience == "" {
		audience = addition.AudienceKid
	}

	phrase, err := addition.Motivation(audience, s.narrator.Pick, int(s.phraseSeq.Add(1)-1))
	if err != nil {
		q.failWith(http.StatusBadRequest, "unknown audience", err)
		return
	}
	q.ok(http.StatusOK, MotivationResponse{Audience: string(audience), Phrase: phrase})
}
