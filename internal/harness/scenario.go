package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rihla-app/localbase/internal/query"
	"github.com/rihla-app/localbase/internal/row"
)

// Scenario defines a conformance test scenario: seed data, a sequence of
// operations against the emulator, and assertions on the final state. The
// full operation trace is captured for golden file comparison.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Seed maps collection names to initial rows, applied before the steps.
	Seed map[string][]map[string]any `yaml:"seed,omitempty"`

	// Steps is the main flow: queries, mutations, and auth operations.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store state after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation in a scenario flow.
type Step struct {
	// Op selects the operation: query, insert, upsert, update, delete,
	// signup, signin, signin_provider, signout, session, reset.
	Op string `yaml:"op"`

	// Collection scopes data operations.
	Collection string `yaml:"collection,omitempty"`

	// Rows are the payload for insert and upsert.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Patch is the partial row for update.
	Patch map[string]any `yaml:"patch,omitempty"`

	// Where gives conjunctive predicate clauses for query, update, delete.
	Where []WhereClause `yaml:"where,omitempty"`

	// AnyOf gives disjunctive equality clauses for query.
	AnyOf []WhereClause `yaml:"any_of,omitempty"`

	OrderBy *OrderClause  `yaml:"order_by,omitempty"`
	Limit   int           `yaml:"limit,omitempty"`
	Single  bool          `yaml:"single,omitempty"`
	Expand  *ExpandClause `yaml:"expand,omitempty"`

	// Auth operation parameters.
	Email    string         `yaml:"email,omitempty"`
	Password string         `yaml:"password,omitempty"`
	Provider string         `yaml:"provider,omitempty"`
	Profile  map[string]any `yaml:"profile,omitempty"`

	// ExpectError names the error code this step must fail with
	// (NOT_FOUND, DUPLICATE_USER, INVALID_CREDENTIALS). A step with an
	// empty ExpectError must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// WhereClause is one predicate clause. Op is eq, contains, or gte; eq is
// assumed when empty.
type WhereClause struct {
	Column string `yaml:"column"`
	Op     string `yaml:"op,omitempty"`
	Value  any    `yaml:"value"`
}

// OrderClause selects a sort column and direction.
type OrderClause struct {
	Column    string `yaml:"column"`
	Ascending bool   `yaml:"ascending"`
}

// ExpandClause declares a foreign-key expansion, optionally nested one
// level.
type ExpandClause struct {
	Field      string        `yaml:"field"`
	Collection string        `yaml:"collection"`
	ForeignKey string        `yaml:"foreign_key"`
	Nested     *ExpandClause `yaml:"nested,omitempty"`
}

// Assertion validates final store state.
type Assertion struct {
	// Type is final_state, row_count, or session_present.
	Type string `yaml:"type"`

	// Collection scopes final_state and row_count.
	Collection string `yaml:"collection,omitempty"`

	// Where filters final_state rows; all clauses must match.
	Where []WhereClause `yaml:"where,omitempty"`

	// Expect holds expected field values for final_state. Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected row count for row_count.
	Count int `yaml:"count,omitempty"`

	// Present is the expected session presence for session_present.
	Present bool `yaml:"present,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState     = "final_state"
	AssertRowCount       = "row_count"
	AssertSessionPresent = "session_present"
)

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// Validate checks structural requirements before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertFinalState, AssertRowCount:
			if a.Collection == "" {
				return fmt.Errorf("assertion %d: %s requires a collection", i+1, a.Type)
			}
		case AssertSessionPresent:
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i+1, a.Type)
		}
	}
	return nil
}

func (st *Step) validate() error {
	switch st.Op {
	case "query", "insert", "upsert", "update", "delete":
		if st.Collection == "" {
			return fmt.Errorf("%s requires a collection", st.Op)
		}
	case "signup", "signin":
		if st.Email == "" {
			return fmt.Errorf("%s requires an email", st.Op)
		}
	case "signin_provider":
		if st.Provider == "" {
			return fmt.Errorf("signin_provider requires a provider")
		}
	case "signout", "session", "reset":
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

// predicates converts where clauses to query predicates.
func predicates(clauses []WhereClause) ([]query.Predicate, error) {
	preds := make([]query.Predicate, 0, len(clauses))
	for _, c := range clauses {
		v, err := row.FromAny(c.Value)
		if err != nil {
			return nil, fmt.Errorf("clause on %s: %w", c.Column, err)
		}
		switch c.Op {
		case "", "eq":
			preds = append(preds, query.Eq{Column: c.Column, Value: v})
		case "gte":
			preds = append(preds, query.Gte{Column: c.Column, Value: v})
		case "contains":
			s, ok := c.Value.(string)
			if !ok {
				return nil, fmt.Errorf("clause on %s: contains needs a string pattern", c.Column)
			}
			preds = append(preds, query.Contains{Column: c.Column, Pattern: s})
		default:
			return nil, fmt.Errorf("clause on %s: unknown op %q", c.Column, c.Op)
		}
	}
	return preds, nil
}

// equalityClauses converts any_of clauses to query equality clauses.
func equalityClauses(clauses []WhereClause) ([]query.Eq, error) {
	eqs := make([]query.Eq, 0, len(clauses))
	for _, c := range clauses {
		if c.Op != "" && c.Op != "eq" {
			return nil, fmt.Errorf("any_of clause on %s: only eq is supported", c.Column)
		}
		v, err := row.FromAny(c.Value)
		if err != nil {
			return nil, fmt.Errorf("any_of clause on %s: %w", c.Column, err)
		}
		eqs = append(eqs, query.Eq{Column: c.Column, Value: v})
	}
	return eqs, nil
}

func (c *ExpandClause) expansion() query.Expansion {
	exp := query.Expansion{
		Field:      c.Field,
		Collection: c.Collection,
		ForeignKey: c.ForeignKey,
	}
	if c.Nested != nil {
		nested := c.Nested.expansion()
		exp.Nested = &nested
	}
	return exp
}

func decodeRows(raw []map[string]any) ([]row.Row, error) {
	rows := make([]row.Row, 0, len(raw))
	for i, m := range raw {
		r, err := row.RowFromAny(m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}
