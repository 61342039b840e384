// Command epilog-repl is an interactive top level: consult files with
// -consult-files, then type queries (or new rules, written with ":-") at
// the prompt; any other input, a bare fact included, is run as a query.
// After a solution, ";" asks for the next one and "." accepts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/varkor/Epilog/parser"
	"github.com/varkor/Epilog/solver"
	"github.com/varkor/Epilog/term"
)

var (
	consultFiles = flag.String("consult-files", "", "Comma-separated files to consult, in order")
	iterLimit    = flag.Int("iter-limit", 0, "Abort a query after this many instructions (0 = no limit)")
)

type ctx struct {
	solver   *solver.Solver
	readline *readline.Instance
}

func main() {
	flag.Parse()

	s, err := solver.NewSolver(os.Stdout, nil)
	if err != nil {
		log.Fatal(err)
	}
	s.Machine().IterLimit = *iterLimit
	for _, file := range strings.Split(*consultFiles, ",") {
		if len(file) == 0 {
			continue
		}
		consultFile(s, file)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "?- ",
		HistoryFile:            "/tmp/epilog-repl-history",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer rl.Close()

	ctx := ctx{solver: s, readline: rl}
	ctx.mainLoop()
}

func consultFile(s *solver.Solver, filename string) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		log.Print(err)
		return
	}
	clauses, err := parser.Parse(string(bs))
	if err != nil {
		log.Printf("%s: %v", filename, err)
		return
	}
	for _, c := range clauses {
		if c.Kind == term.QueryClause {
			log.Printf("%s: skipping query while consulting", filename)
			continue
		}
		if err := s.Assert(c); err != nil {
			log.Printf("%s: %v", filename, err)
			return
		}
	}
}

func (ctx ctx) mainLoop() {
	for {
		input, isClose := ctx.readInput()
		if isClose {
			return
		}
		clauses, err := parser.Parse(input)
		if err != nil {
			log.Print(err)
			continue
		}
		for _, c := range clauses {
			if c.Kind != term.QueryClause {
				if err := ctx.solver.Assert(c); err != nil {
					log.Print(err)
				}
				continue
			}
			ctx.enumerateSolutions(c)
		}
	}
}

// readInput accumulates lines until one ends in ".". A bare query can be
// typed without its "?-" prefix, the way a Prolog top level reads it.
func (ctx ctx) readInput() (string, bool) {
	ctx.readline.SetPrompt("?- ")
	var lines []string
	for {
		line, err := ctx.readline.Readline()
		if err != nil {
			return "", true
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
		if !strings.HasSuffix(line, ".") {
			ctx.readline.SetPrompt("|  ")
			continue
		}
		break
	}
	input := strings.Join(lines, " ")
	ctx.readline.SaveHistory(input)
	// A bare term at the prompt is a query; rules (":-") are asserted.
	if !strings.HasPrefix(input, "?-") && !strings.Contains(input, ":-") {
		input = "?- " + input
	}
	return input, false
}

func (ctx ctx) enumerateSolutions(c *term.Clause) {
	sols, err := ctx.solver.Query(c)
	if err != nil {
		log.Print(err)
		return
	}
	for {
		sol, found, err := sols.Next()
		if err != nil {
			log.Print(err)
			return
		}
		if !found {
			fmt.Println("false.")
			return
		}
		printSolution(sols.VarNames(), sol)
		if len(sol) == 0 || !ctx.wantsMore() {
			return
		}
	}
}

func printSolution(names []string, sol solver.Solution) {
	if len(names) == 0 {
		fmt.Println("true.")
		return
	}
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s = %s", name, sol[name])
	}
	fmt.Println(strings.Join(parts, ", "))
}

// wantsMore reads ";" (next solution) or "." (stop).
func (ctx ctx) wantsMore() bool {
	for {
		ctx.readline.SetPrompt("")
		line, err := ctx.readline.Readline()
		if err != nil {
			return false
		}
		switch strings.TrimSpace(line) {
		case ";":
			return true
		case ".", "":
			return false
		}
	}
}
