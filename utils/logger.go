package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log layers used by the command line tool.
const (
	LayerMain     = "MAIN"
	LayerSolve    = "SOLVE"
	LayerDecode   = "DECODE"
	LayerKeystore = "KEYSTORE"
)

// SetupLogger configures the global zerolog logger to write colored console
// output to stderr.
func SetupLogger(level zerolog.Level) {
	log.Logger = NewLogger(os.Stderr, level, true)
}

// NewLogger builds a console logger. The "layer" field is moved in front of
// the message.
func NewLogger(out io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: !color}
	output.FormatPrepare = func(evt map[string]interface{}) error {
		layer, ok := evt["layer"].(string)
		if !ok {
			return nil
		}
		prefix := fmt.Sprintf("[%-8s]", layer)
		if color {
			prefix = layerColor(layer) + prefix + "\x1b[0m"
		}
		if msg, ok := evt["message"].(string); ok {
			evt["message"] = prefix + " " + msg
		} else {
			evt["message"] = prefix
		}
		delete(evt, "layer")
		return nil
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func layerColor(layer string) string {
	switch layer {
	case LayerMain:
		return "\x1b[35m" // Magenta
	case LayerSolve:
		return "\x1b[32m" // Green
	case LayerDecode:
		return "\x1b[36m" // Cyan
	case LayerKeystore:
		return "\x1b[33m" // Yellow
	}
	return "\x1b[37m"
}
