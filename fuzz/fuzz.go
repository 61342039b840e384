// Package fuzz is a go-fuzz target over the parser and compiler
// pipeline: any input the parser accepts must also compile without
// panicking.
package fuzz

import (
	"github.com/varkor/Epilog/parser"
	"github.com/varkor/Epilog/term"
	"github.com/varkor/Epilog/wam"
)

func Fuzz(data []byte) int {
	clauses, err := parser.Parse(string(data))
	if err != nil {
		return 0
	}
	for _, c := range clauses {
		if c.Kind == term.QueryClause {
			wam.CompileQuery(c)
		} else {
			wam.CompileRule(c)
		}
	}
	return 1
}
