package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

var errNoKeys = fmt.Errorf("%w: no keys provided", calc.ErrUnknownKey)

// Service drives calculator engines on behalf of the HTTP and MCP surfaces
// and instruments every key press.
type Service struct {
	store *session.Store
}

func NewService(store *session.Store) *Service {
	return &Service{store: store}
}

// CreateSession starts a session. Empty mode or angle mode select the
// engine defaults.
func (s *Service) CreateSession(ctx context.Context, mode, angle string) (string, calc.View, error) {
	m, a, err := parseModes(mode, angle)
	if err != nil {
		return "", calc.View{}, err
	}

	sess := s.store.Create(m, a)
	sessionsActive.Add(ctx, 1)

	observability.LoggerWithTrace(ctx).Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("mode", string(m)),
		zap.String("angle_mode", string(a)),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	return sess.ID, sess.View(), nil
}

// Session returns the current view of a session.
func (s *Service) Session(ctx context.Context, id string) (calc.View, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return calc.View{}, err
	}
	return sess.View(), nil
}

// DeleteSession drops a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	sessionsActive.Add(ctx, -1)

	observability.LoggerWithTrace(ctx).Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	return nil
}

// PressKeys applies keys to a session in order. An empty batch is rejected.
// Every key is validated against the session's mode before any of them is
// applied, so a rejected batch leaves the session untouched.
func (s *Service) PressKeys(ctx context.Context, id string, keys []string) (calc.View, []KeyResult, error) {
	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.Int("calculator.keys.count", len(keys)),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	if len(keys) == 0 {
		return calc.View{}, nil, errNoKeys
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return calc.View{}, nil, err
	}

	actions, err := parseKeys(keys)
	if err != nil {
		return calc.View{}, nil, err
	}

	var (
		results []KeyResult
		runErr  error
	)
	view := sess.Do(func(e *calc.Engine) {
		if runErr = checkReachable(e.Mode(), keys, actions); runErr != nil {
			return
		}
		results = s.apply(ctx, e, keys, actions)
	})
	if runErr != nil {
		return calc.View{}, nil, runErr
	}

	finishSpan(span, view)
	return view, results, nil
}

// SetMode switches a session between Basic and Scientific.
func (s *Service) SetMode(ctx context.Context, id, mode string) (calc.View, error) {
	m, err := calc.ParseMode(mode)
	if err != nil {
		return calc.View{}, err
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return calc.View{}, err
	}

	return sess.Do(func(e *calc.Engine) { e.SetMode(m) }), nil
}

// ToggleAngle flips a session between degrees and radians.
func (s *Service) ToggleAngle(ctx context.Context, id string) (calc.View, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return calc.View{}, err
	}

	var toggleErr error
	view := sess.Do(func(e *calc.Engine) {
		if !e.Mode().Allows(calc.Action{Kind: calc.ActionToggleAngle}) {
			toggleErr = fmt.Errorf("%w: angle toggle in %s", calc.ErrKeyUnavailable, e.Mode())
			return
		}
		e.ToggleAngleMode()
	})
	if toggleErr != nil {
		return calc.View{}, toggleErr
	}
	return view, nil
}

// Evaluate runs keys on a fresh engine that is discarded afterwards.
func (s *Service) Evaluate(ctx context.Context, mode, angle string, keys []string) (calc.View, []KeyResult, error) {
	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.Int("calculator.keys.count", len(keys)),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	if len(keys) == 0 {
		return calc.View{}, nil, errNoKeys
	}

	m, a, err := parseModes(mode, angle)
	if err != nil {
		return calc.View{}, nil, err
	}

	actions, err := parseKeys(keys)
	if err != nil {
		return calc.View{}, nil, err
	}
	if err := checkReachable(m, keys, actions); err != nil {
		return calc.View{}, nil, err
	}

	e := calc.NewEngine()
	e.SetMode(m)
	if a != e.AngleMode() {
		e.ToggleAngleMode()
	}

	results := s.apply(ctx, e, keys, actions)
	view := e.View()

	finishSpan(span, view)
	observability.LoggerWithTrace(ctx).Info("calculator evaluation completed",
		zap.Int("keys", len(keys)),
		zap.String("display", view.Display),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	return view, results, nil
}

// Sweep evicts idle sessions and adjusts the session count.
func (s *Service) Sweep(ctx context.Context) int {
	n := s.store.Sweep()
	s.recordSwept(ctx, n)
	return n
}

func (s *Service) recordSwept(ctx context.Context, n int) {
	if n == 0 {
		return
	}
	sessionsActive.Add(ctx, int64(-n))
	observability.Logger.Info("idle calculator sessions evicted", zap.Int("count", n))
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	s.store.Run(ctx, interval, func(n int) { s.recordSwept(ctx, n) })
}

// apply dispatches actions one by one, with a child span per key. It must
// run with exclusive access to e.
func (s *Service) apply(ctx context.Context, e *calc.Engine, keys []string, actions []calc.Action) []KeyResult {
	logger := observability.LoggerWithTrace(ctx)
	results := make([]KeyResult, 0, len(actions))

	for i, a := range actions {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, a.Kind),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.label", keys[i]),
				attribute.String("calculator.key.action", a.String()),
			),
		)

		start := time.Now()
		e.Dispatch(a)
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6

		attrs := metric.WithAttributes(attribute.String("action", a.Kind.String()))
		keysCounter.Add(ctx, 1, attrs)
		keysHistogram.Record(ctx, elapsed, attrs)

		result := KeyResult{Key: keys[i], Display: e.DisplayText()}

		if fault := e.Fault(); fault != nil {
			kind := calc.FaultKind(fault)
			result.Fault = kind

			keySpan.RecordError(fault)
			keySpan.SetStatus(codes.Error, kind)
			errorCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", "key"),
				attribute.String("kind", kind),
			))
			logger.Warn("calculator fault",
				zap.Int("step", i),
				zap.String("key", keys[i]),
				zap.String("kind", kind),
				zap.Error(fault),
			)
		} else {
			if a.Kind == calc.ActionOperator || a.Kind == calc.ActionEquals {
				resultGauge.Record(ctx, e.State().Value, attrs)
			}
			keySpan.SetStatus(codes.Ok, "")
		}

		keySpan.SetAttributes(attribute.String("calculator.display", result.Display))
		keySpan.End()

		logger.Debug("calculator key applied",
			zap.Int("step", i),
			zap.String("key", keys[i]),
			zap.String("display", result.Display),
			zap.Float64("duration_ms", elapsed),
		)

		results = append(results, result)
	}

	return results
}

func finishSpan(span trace.Span, view calc.View) {
	span.AddEvent("keys.complete", trace.WithAttributes(
		attribute.String("display", view.Display),
		attribute.Bool("error", view.Error),
	))
	span.SetAttributes(attribute.String("calculator.display", view.Display))
	span.SetStatus(codes.Ok, "")
}

func parseModes(mode, angle string) (calc.Mode, calc.AngleMode, error) {
	m, a := calc.ModeScientific, calc.Degrees

	var err error
	if mode != "" {
		if m, err = calc.ParseMode(mode); err != nil {
			return "", "", err
		}
	}
	if angle != "" {
		if a, err = calc.ParseAngleMode(angle); err != nil {
			return "", "", err
		}
	}
	return m, a, nil
}

func parseKeys(keys []string) ([]calc.Action, error) {
	actions := make([]calc.Action, 0, len(keys))
	for i, k := range keys {
		a, err := calc.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func checkReachable(m calc.Mode, keys []string, actions []calc.Action) error {
	for i, a := range actions {
		if !m.Allows(a) {
			return fmt.Errorf("key %d: %w: %q in %s", i, calc.ErrKeyUnavailable, keys[i], m)
		}
	}
	return nil
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the service.
func IsInputError(err error) bool {
	return errors.Is(err, calc.ErrUnknownKey) ||
		errors.Is(err, calc.ErrKeyUnavailable) ||
		errors.Is(err, calc.ErrInvalidMode) ||
		errors.Is(err, calc.ErrInvalidAngleMode)
}
