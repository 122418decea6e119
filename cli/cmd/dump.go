package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lexenv/lang"
)

// Sentinel errors.
var (
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrJSONMarshal = lang.NewError("marshal JSON")
)

// jsonIndent is the indentation used for JSON dump output.
const jsonIndent = "  "

// Dump prints the bindings of the standard scope in a machine-readable
// format.
type Dump struct {
	Format string `help:"Output format" default:"yaml" enum:"yaml,json" short:"o"`
}

// binding describes a single standard-scope entry in dump output.
type binding struct {
	Name     string `json:"name"     yaml:"name"`
	Value    string `json:"value"    yaml:"value"`
	Constant bool   `json:"constant" yaml:"constant"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return d.render(os.Stdout)
}

// render writes the standard scope bindings to w in the selected format.
func (d *Dump) render(w io.Writer) (err error) {
	std := lang.StdScope()

	bindings := make([]binding, 0, std.Len())
	for name, slot := range std.Enumerate() {
		bindings = append(bindings, binding{
			Name:     name,
			Value:    slot.Get().String(),
			Constant: slot.Constant(),
		})
	}

	var out []byte

	switch d.Format {
	case "json":
		out, err = json.MarshalIndent(bindings, "", jsonIndent)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		out = append(out, '\n')

	default:
		out, err = yaml.Marshal(bindings)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	_, err = w.Write(out)

	return err
}
