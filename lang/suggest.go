package lang

import (
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds how many candidate names an undefined-variable
// diagnostic carries.
const maxSuggestions = 3

func attrName(name string) slog.Attr {
	return slog.String("name", name)
}

// Suggest returns up to maxSuggestions binding names visible in the chain
// that fuzzily match name, best match first. An empty result means nothing
// plausible is in scope.
func Suggest(name string, scopes *Scopes) []string {
	var visible []string

	for n := range scopes.Visible() {
		visible = append(visible, n)
	}

	matches := fuzzy.Find(name, visible)

	limit := min(len(matches), maxSuggestions)

	out := make([]string, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, m.Str)
	}

	return out
}

// undefined builds the diagnostic for a failed chained lookup, attaching
// nearest-name suggestions when any exist.
func undefined(name string, scopes *Scopes) *Error {
	err := ErrUndefined.With(attrName(name))

	if hints := Suggest(name, scopes); len(hints) > 0 {
		err = err.With(slog.Any("did_you_mean", hints))
	}

	return err
}
