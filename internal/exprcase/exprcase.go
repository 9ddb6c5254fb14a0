// Package exprcase compiles match cases written as expressions, such as
// "circle=value.r * value.r * 3.14", into unionize cases.
package exprcase

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reoring/unionize"
)

// Env is the expression environment. value is the case payload; for the
// default case it is the whole variant's fields.
type Env struct {
	Tag    string         `expr:"tag"`
	Value  any            `expr:"value"`
	Fields map[string]any `expr:"fields"`
}

// Spec is one parsed "tag=expression" pair.
type Spec struct {
	Tag    string
	Source string
}

// Parse splits a "tag=expression" argument.
func Parse(s string) (Spec, error) {
	tag, src, ok := strings.Cut(s, "=")
	tag = strings.TrimSpace(tag)
	src = strings.TrimSpace(src)
	if !ok || tag == "" || src == "" {
		return Spec{}, fmt.Errorf("exprcase: want tag=expression, got %q", s)
	}
	return Spec{Tag: tag, Source: src}, nil
}

// Result is what a compiled case produces: the expression's value, or the
// error the expression raised at run time.
type Result struct {
	Value any
	Err   error
}

// Compile turns specs and an optional default expression into cases for b.
// Every expression is compiled up front so syntax errors surface before any
// variant is read.
func Compile(b *unionize.Bundle, specs []Spec, def string) ([]unionize.Case[Result], error) {
	cases := make([]unionize.Case[Result], 0, len(specs)+1)
	for _, s := range specs {
		prg, err := compile(s.Source)
		if err != nil {
			return nil, fmt.Errorf("exprcase: case %q: %w", s.Tag, err)
		}
		tag := s.Tag
		cases = append(cases, unionize.Handle(tag, func(p any) Result {
			return run(prg, Env{Tag: tag, Value: p, Fields: fieldsOf(p)})
		}))
	}
	if strings.TrimSpace(def) != "" {
		prg, err := compile(def)
		if err != nil {
			return nil, fmt.Errorf("exprcase: default: %w", err)
		}
		cases = append(cases, unionize.Default(func(v unionize.Variant) Result {
			tag, _ := b.TagOf(v)
			f := v.Fields()
			return run(prg, Env{Tag: tag, Value: f, Fields: f})
		}))
	}
	return cases, nil
}

func compile(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(Env{}))
}

func run(prg *vm.Program, env Env) Result {
	out, err := expr.Run(prg, env)
	return Result{Value: out, Err: err}
}

func fieldsOf(p any) map[string]any {
	if m, ok := p.(unionize.Fields); ok {
		return m
	}
	return nil
}
