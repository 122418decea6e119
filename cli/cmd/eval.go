package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/lexenv/lang"
	"github.com/ardnew/lexenv/log"
)

// Eval evaluates a script from a source file or stdin and prints the value
// of its final expression.
type Eval struct {
	Source string `arg:"" help:"Script file or '-' for stdin" default:"-" optional:""`
	Quiet  bool   `       help:"Suppress printing the result"             short:"q"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := openSource(e.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	interp := lang.New(
		lang.WithOutput(os.Stdout),
		lang.WithLogger(log.Default()),
	)

	result, err := interp.RunReader(ctx, src)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"), slog.String("source", e.Source))
	}

	log.DebugContext(ctx, "script evaluated",
		slog.String("source", e.Source),
	)

	if !e.Quiet && result != nil {
		fmt.Println(lang.NewValue(result).String())
	}

	return nil
}
