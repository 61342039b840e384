// Package solver exposes the interpreter's two top-level operations:
// extend the database with a clause, and execute a query, reporting the
// query variables' bindings solution by solution.
package solver

import (
	"io"

	"github.com/varkor/Epilog/errors"
	"github.com/varkor/Epilog/term"
	"github.com/varkor/Epilog/wam"
)

// Solver owns one machine and drives compilation and execution on it.
type Solver struct {
	m *wam.Machine
}

// Solution maps a query variable's name to its bound value, printed in
// source notation.
type Solution map[string]string

// NewSolver creates a solver whose write/1, writeln/1 and nl/0 output
// goes to out, preloaded with the given clauses.
func NewSolver(out io.Writer, clauses []*term.Clause) (*Solver, error) {
	s := &Solver{m: wam.NewMachine(out)}
	for _, c := range clauses {
		if err := s.Assert(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Machine exposes the underlying machine for callers that need to tune
// it (iteration limit, instruction tracing).
func (s *Solver) Machine() *wam.Machine {
	return s.m
}

// Assert compiles a fact or rule and splices it into the database.
func (s *Solver) Assert(c *term.Clause) error {
	if c.Kind == term.QueryClause {
		return errors.New("cannot assert a query")
	}
	f, code := wam.CompileRule(c)
	return s.m.AddClause(f, code)
}

// Query compiles a query clause and returns its solution stream. Nothing
// runs until the first Next call.
func (s *Solver) Query(c *term.Clause) (*Solutions, error) {
	if c.Kind != term.QueryClause {
		return nil, errors.New("Query requires a query clause, got %v", c.Kind)
	}
	q := wam.CompileQuery(c)
	start := s.m.LoadQuery(q.Code)
	return &Solutions{solver: s, query: q, start: start}, nil
}

// Solutions enumerates a query's solutions in backtracking order.
type Solutions struct {
	solver  *Solver
	query   *wam.CompiledQuery
	start   int
	started bool
	done    bool
}

// VarNames lists the query's variable names in source order, for
// callers that want deterministic binding display.
func (sols *Solutions) VarNames() []string {
	names := make([]string, len(sols.query.Vars))
	for i, v := range sols.query.Vars {
		names[i] = v.Name
	}
	return names
}

// Next runs the machine to the next solution. It returns (solution,
// true, nil) on success, (nil, false, nil) once alternatives are
// exhausted, and a non-nil error only on a fatal condition.
func (sols *Solutions) Next() (Solution, bool, error) {
	if sols.done {
		return nil, false, nil
	}
	m := sols.solver.m
	var found bool
	var err error
	if !sols.started {
		sols.started = true
		found, err = m.RunQuery(sols.start)
	} else {
		found, err = m.Retry()
	}
	if err != nil || !found {
		sols.done = true
		return nil, false, err
	}
	solution := make(Solution, len(sols.query.Vars))
	for _, v := range sols.query.Vars {
		solution[v.Name] = m.Format(v.Addr)
	}
	return solution, true, nil
}
