// Command epilog-compile parses a source file and writes the compiled
// instruction listing, one clause block per predicate, for inspecting
// what the compiler and database splicer produce.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/varkor/Epilog/parser"
	"github.com/varkor/Epilog/term"
	"github.com/varkor/Epilog/wam"
)

var (
	inputFilename  = flag.String("input", "", "Input file (required)")
	outputFilename = flag.String("output", "", "Output file (defaults to stdout)")
)

func main() {
	flag.Parse()
	if *inputFilename == "" {
		log.Fatalf("-input is required")
	}
	source, err := os.ReadFile(*inputFilename)
	if err != nil {
		log.Fatal(err)
	}
	clauses, err := parser.Parse(string(source))
	if err != nil {
		log.Fatalf("%s: %v", *inputFilename, err)
	}

	m := wam.NewMachine(os.Stdout)
	for _, c := range clauses {
		if c.Kind == term.QueryClause {
			continue
		}
		f, code := wam.CompileRule(c)
		if err := m.AddClause(f, code); err != nil {
			log.Fatalf("%s: %v", *inputFilename, err)
		}
	}

	out := os.Stdout
	if *outputFilename != "" {
		f, err := os.Create(*outputFilename)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	fmt.Fprint(out, listing(m))
}

// listing renders the whole instruction vector with a label line before
// each address a predicate's clause chain starts at.
func listing(m *wam.Machine) string {
	labels := make(map[int][]string)
	var functors []wam.Functor
	for f := range m.Labels {
		functors = append(functors, f)
	}
	sort.Slice(functors, func(i, j int) bool {
		return m.Labels[functors[i]].Starts[0] < m.Labels[functors[j]].Starts[0]
	})
	for _, f := range functors {
		for i, start := range m.Labels[f].Starts {
			labels[start] = append(labels[start], fmt.Sprintf("%s clause %d", f, i+1))
		}
	}

	var b strings.Builder
	for addr, instr := range m.Code {
		for _, l := range labels[addr] {
			fmt.Fprintf(&b, "%% %s\n", l)
		}
		fmt.Fprintf(&b, "%4d  %s\n", addr, instr)
	}
	return b.String()
}
