package cmd

import (
	"context"

	"github.com/ardnew/lexenv/cli/cmd/repl"
	"github.com/ardnew/lexenv/log"
)

// Repl starts an interactive read-eval-print session.
type Repl struct {
	Cache string `hidden:"" default:"${cache}"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return repl.Run(ctx, r.Cache, log.Default())
}
