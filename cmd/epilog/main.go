// Command epilog runs a source file: facts and rules extend the
// database in order, and each query is executed as it is reached, with
// its result printed immediately.
//
// Exit status is 0 when every query succeeded, 1 when any query failed
// or any compile/runtime error occurred.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/varkor/Epilog/parser"
	"github.com/varkor/Epilog/solver"
	"github.com/varkor/Epilog/term"
)

var (
	verbose   = flag.Bool("v", false, "Enable debug logging")
	trace     = flag.Bool("trace", false, "Log every executed instruction (implies -v)")
	iterLimit = flag.Int("iter-limit", 0, "Abort a query after this many instructions (0 = no limit)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose || *trace {
		log.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() != 1 {
		log.Error("usage: epilog [flags] <file>")
		return 1
	}
	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		log.Error(err)
		return 1
	}
	clauses, err := parser.Parse(string(source))
	if err != nil {
		log.Errorf("%s: %v", path, err)
		return 1
	}

	s, err := solver.NewSolver(os.Stdout, nil)
	if err != nil {
		log.Error(err)
		return 1
	}
	m := s.Machine()
	m.IterLimit = *iterLimit
	if *trace {
		m.Log = logrus.NewEntry(log)
	}

	ok := true
	for _, c := range clauses {
		if c.Kind != term.QueryClause {
			if err := s.Assert(c); err != nil {
				log.Errorf("%s: %v", path, err)
				return 1
			}
			continue
		}
		success, err := runQuery(s, c)
		if err != nil {
			log.Errorf("%s: %v", path, err)
			return 1
		}
		ok = ok && success
	}
	if !ok {
		return 1
	}
	return 0
}

// runQuery executes one query to its first solution and prints the
// result: the variable bindings when there are any, otherwise a plain
// true./false. verdict.
func runQuery(s *solver.Solver, c *term.Clause) (bool, error) {
	sols, err := s.Query(c)
	if err != nil {
		return false, err
	}
	sol, found, err := sols.Next()
	if err != nil {
		return false, err
	}
	if !found {
		fmt.Println("false.")
		return false, nil
	}
	names := sols.VarNames()
	if len(names) == 0 {
		fmt.Println("true.")
		return true, nil
	}
	for _, name := range names {
		fmt.Printf("%s = %s\n", name, sol[name])
	}
	return true, nil
}
