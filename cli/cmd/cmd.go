package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/lexenv/lang"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens the script source at path, or stdin when path is "-".
// The caller is responsible for closing the returned reader.
func openSource(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, lang.ErrReadInput.
			Wrap(err).
			With(slog.String("file", path))
	}

	return file, nil
}
