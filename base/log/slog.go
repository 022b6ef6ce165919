package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const timeFormat = "060102 15:04:05.000"

// newHandler creates the slog handler writing to w.
// The handler accepts everything, filtering happens against the
// package log level, so it can be changed at runtime.
func newHandler(w io.Writer) slog.Handler {
	color := false
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		color = true
		w = colorable.NewColorable(f)
	}

	return tint.NewHandler(w, &tint.Options{
		AddSource:  true,
		Level:      slog.LevelDebug,
		TimeFormat: timeFormat,
		NoColor:    !color,
	})
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
