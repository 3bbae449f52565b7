package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the zerolog-backed logger
type Options struct {
	Level zerolog.Level
	// JSON switches stdout output from the console writer to JSON lines.
	JSON bool
	// Writer overrides stdout; JSON is implied.
	Writer io.Writer
	// Fields are attached to every entry, e.g. the app version.
	Fields map[string]interface{}
}

type ZerologAdapter struct {
	logger zerolog.Logger
}

// New builds a logger from options
func New(opts Options) *ZerologAdapter {
	var out io.Writer
	switch {
	case opts.Writer != nil:
		out = opts.Writer
	case opts.JSON:
		out = os.Stdout
	default:
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(out).Level(opts.Level).With().Timestamp()
	for k, v := range opts.Fields {
		ctx = ctx.Interface(k, v)
	}
	return &ZerologAdapter{logger: ctx.Logger()}
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	withFields(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	withFields(z.logger.Error(), component, fields).Err(err).Msg("operation failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	withFields(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	withFields(z.logger.Debug(), component, fields).Msg(message)
}

// withFields encodes common value types natively so JSON output keeps
// numbers and durations typed. A nil event (level disabled) is passed through.
func withFields(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	if event == nil {
		return nil
	}
	event = event.Str("component", component)
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			event = event.Str(k, val)
		case int:
			event = event.Int(k, val)
		case int64:
			event = event.Int64(k, val)
		case float64:
			event = event.Float64(k, val)
		case bool:
			event = event.Bool(k, val)
		case time.Duration:
			event = event.Dur(k, val)
		case time.Time:
			event = event.Time(k, val)
		case error:
			event = event.AnErr(k, val)
		default:
			event = event.Interface(k, val)
		}
	}
	return event
}
