package harness

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rihla-app/localbase/internal/auth"
	"github.com/rihla-app/localbase/internal/backend"
	"github.com/rihla-app/localbase/internal/row"
	"github.com/rihla-app/localbase/internal/store"
	"github.com/rihla-app/localbase/internal/testutil"
)

// scenarioClock is the fixed time source for scenario runs. Every session
// expiry in a golden trace derives from it.
var scenarioClock = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// TraceEvent records one executed step and its outcome.
type TraceEvent struct {
	Seq        int           `json:"seq"`
	Op         string        `json:"op"`
	Collection string        `json:"collection,omitempty"`
	Rows       []row.Row     `json:"rows,omitempty"`
	Row        row.Row       `json:"row,omitempty"`
	Session    *SessionTrace `json:"session,omitempty"`
	Event      string        `json:"event,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// SessionTrace is the serialized form of a session in a trace.
type SessionTrace struct {
	Token     string  `json:"token"`
	User      row.Row `json:"user"`
	ExpiresAt string  `json:"expires_at"`
}

// Result holds the trace and assertion outcomes of a scenario run.
type Result struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
	Failures     []string     `json:"failures,omitempty"`
}

// Passed reports whether every step and assertion held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

type harness struct {
	backend *backend.Backend
	auth    *auth.Service
	result  *Result
	seq     int
}

// Run executes a scenario against a fresh in-memory emulator. Surrogate ids
// and session tokens come from sequence generators and the clock is fixed,
// so two runs of the same scenario produce identical traces.
func Run(scenario *Scenario) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory store: %w", err)
	}
	defer st.Close()

	b := backend.New(st, backend.WithIDGenerator(testutil.NewSequenceGenerator("row")))
	svc := auth.New(b,
		auth.WithTokenGenerator(testutil.NewSequenceGenerator("token")),
		auth.WithClock(func() time.Time { return scenarioClock }),
	)

	h := &harness{
		backend: b,
		auth:    svc,
		result:  &Result{ScenarioName: scenario.Name, Trace: []TraceEvent{}},
	}

	// Lifecycle events land in the trace between the steps that caused them.
	svc.Subscribe(func(event auth.Event, _ *auth.Session) {
		h.record(TraceEvent{Op: "event", Event: string(event)})
	})

	ctx := context.Background()
	if err := h.applySeed(ctx, scenario.Seed); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i+1, step); err != nil {
			return nil, err
		}
	}
	h.evaluateAssertions(ctx, scenario.Assertions)
	return h.result, nil
}

func (h *harness) record(event TraceEvent) {
	h.seq++
	event.Seq = h.seq
	h.result.Trace = append(h.result.Trace, event)
}

func (h *harness) fail(format string, args ...any) {
	h.result.Failures = append(h.result.Failures, fmt.Sprintf(format, args...))
}

func (h *harness) applySeed(ctx context.Context, seed map[string][]map[string]any) error {
	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rows, err := decodeRows(seed[name])
		if err != nil {
			return fmt.Errorf("seed collection %s: %w", name, err)
		}
		if _, err := h.backend.Insert(ctx, name, rows...); err != nil {
			return fmt.Errorf("seed collection %s: %w", name, err)
		}
	}
	return nil
}

// executeStep runs one step and records its trace event. Operation errors
// are part of the scenario surface (matched against expect_error); only a
// malformed step aborts the run.
func (h *harness) executeStep(ctx context.Context, num int, step Step) error {
	event, err := h.performOp(ctx, step)
	if err != nil {
		code := errorCode(err)
		h.record(TraceEvent{Op: step.Op, Collection: step.Collection, Error: code})
		if step.ExpectError == "" {
			h.fail("step %d (%s): unexpected error: %v", num, step.Op, err)
		} else if step.ExpectError != code {
			h.fail("step %d (%s): expected error %s, got %s", num, step.Op, step.ExpectError, code)
		}
		return nil
	}

	h.record(event)
	if step.ExpectError != "" {
		h.fail("step %d (%s): expected error %s but the step succeeded", num, step.Op, step.ExpectError)
	}
	return nil
}

func (h *harness) performOp(ctx context.Context, step Step) (TraceEvent, error) {
	switch step.Op {
	case "query":
		return h.performQuery(ctx, step)

	case "insert", "upsert":
		rows, err := decodeRows(step.Rows)
		if err != nil {
			return TraceEvent{}, err
		}
		var out []row.Row
		if step.Op == "insert" {
			out, err = h.backend.Insert(ctx, step.Collection, rows...)
		} else {
			out, err = h.backend.Upsert(ctx, step.Collection, rows...)
		}
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op, Collection: step.Collection, Rows: out}, nil

	case "update":
		preds, err := predicates(step.Where)
		if err != nil {
			return TraceEvent{}, err
		}
		patch, err := row.RowFromAny(step.Patch)
		if err != nil {
			return TraceEvent{}, err
		}
		out, err := h.backend.Update(ctx, step.Collection, preds, patch)
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op, Collection: step.Collection, Rows: out}, nil

	case "delete":
		preds, err := predicates(step.Where)
		if err != nil {
			return TraceEvent{}, err
		}
		out, err := h.backend.Delete(ctx, step.Collection, preds)
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op, Collection: step.Collection, Rows: out}, nil

	case "signup":
		var profile row.Row
		if step.Profile != nil {
			var err error
			profile, err = row.RowFromAny(step.Profile)
			if err != nil {
				return TraceEvent{}, err
			}
		}
		sess, err := h.auth.SignUp(ctx, step.Email, step.Password, profile)
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op, Session: sessionTrace(sess)}, nil

	case "signin":
		sess, err := h.auth.SignIn(ctx, step.Email, step.Password)
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op, Session: sessionTrace(sess)}, nil

	case "signin_provider":
		sess, err := h.auth.SignInWithProvider(ctx, step.Provider)
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op, Session: sessionTrace(sess)}, nil

	case "signout":
		if err := h.auth.SignOut(ctx); err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op}, nil

	case "session":
		sess, found, err := h.auth.CurrentSession(ctx)
		if err != nil {
			return TraceEvent{}, err
		}
		event := TraceEvent{Op: step.Op}
		if found {
			event.Session = sessionTrace(sess)
		}
		return event, nil

	case "reset":
		if err := h.backend.Reset(ctx); err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: step.Op}, nil
	}
	return TraceEvent{}, fmt.Errorf("unknown op %q", step.Op)
}

func (h *harness) performQuery(ctx context.Context, step Step) (TraceEvent, error) {
	builder := h.backend.From(step.Collection)

	preds, err := predicates(step.Where)
	if err != nil {
		return TraceEvent{}, err
	}
	for _, p := range preds {
		builder = builder.Where(p)
	}
	if len(step.AnyOf) > 0 {
		eqs, err := equalityClauses(step.AnyOf)
		if err != nil {
			return TraceEvent{}, err
		}
		builder = builder.AnyOf(eqs...)
	}
	if step.OrderBy != nil {
		builder = builder.OrderBy(step.OrderBy.Column, step.OrderBy.Ascending)
	}
	if step.Limit > 0 {
		builder = builder.Limit(step.Limit)
	}
	if step.Expand != nil {
		builder = builder.Expand(step.Expand.expansion())
	}
	if step.Single {
		builder = builder.Single()
	}

	res, err := builder.Execute(ctx)
	if err != nil {
		return TraceEvent{}, err
	}
	if step.Single {
		return TraceEvent{Op: step.Op, Collection: step.Collection, Row: res.Row}, nil
	}
	return TraceEvent{Op: step.Op, Collection: step.Collection, Rows: res.Rows}, nil
}

func (h *harness) evaluateAssertions(ctx context.Context, assertions []Assertion) {
	for i, a := range assertions {
		switch a.Type {
		case AssertFinalState:
			h.assertFinalState(ctx, i+1, a)
		case AssertRowCount:
			res, err := h.backend.From(a.Collection).Execute(ctx)
			if err != nil {
				h.fail("assertion %d: reading %s: %v", i+1, a.Collection, err)
				continue
			}
			if len(res.Rows) != a.Count {
				h.fail("assertion %d: %s has %d rows, want %d", i+1, a.Collection, len(res.Rows), a.Count)
			}
		case AssertSessionPresent:
			_, found, err := h.auth.CurrentSession(ctx)
			if err != nil {
				h.fail("assertion %d: reading session: %v", i+1, err)
				continue
			}
			if found != a.Present {
				h.fail("assertion %d: session present=%v, want %v", i+1, found, a.Present)
			}
		}
	}
}

func (h *harness) assertFinalState(ctx context.Context, num int, a Assertion) {
	preds, err := predicates(a.Where)
	if err != nil {
		h.fail("assertion %d: %v", num, err)
		return
	}
	builder := h.backend.From(a.Collection)
	for _, p := range preds {
		builder = builder.Where(p)
	}
	res, err := builder.Execute(ctx)
	if err != nil {
		h.fail("assertion %d: querying %s: %v", num, a.Collection, err)
		return
	}
	if len(res.Rows) == 0 {
		h.fail("assertion %d: no rows in %s matched the where clauses", num, a.Collection)
		return
	}

	expect, err := row.RowFromAny(a.Expect)
	if err != nil {
		h.fail("assertion %d: %v", num, err)
		return
	}
	for _, r := range res.Rows {
		if rowContains(r, expect) {
			return
		}
	}
	h.fail("assertion %d: no row in %s contains the expected fields", num, a.Collection)
}

// rowContains reports whether every expected field is present and equal.
func rowContains(r, expect row.Row) bool {
	for k, want := range expect {
		got, ok := r[k]
		if !ok || !row.Equal(got, want) {
			return false
		}
	}
	return true
}

func sessionTrace(sess auth.Session) *SessionTrace {
	return &SessionTrace{
		Token:     sess.Token,
		User:      sess.User,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	}
}

func errorCode(err error) string {
	var be *backend.Error
	if errors.As(err, &be) {
		return string(be.Code)
	}
	return "UNKNOWN"
}
