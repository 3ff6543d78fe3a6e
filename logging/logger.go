// Package logging hands out named zap loggers that share one output.
package logging

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var loggerMutex sync.RWMutex // guards access to global logger state

// loggers is the set of loggers in the system
var loggers = make(map[string]*zap.SugaredLogger)

var levels = make(map[string]zap.AtomicLevel)
var defaultLevel = zapcore.InfoLevel

var root atomic.Pointer[zapcore.Core]

func init() {
	SetOutput(ConsoleOutput, os.Stderr)
}

func GetLogger(name string) *zap.SugaredLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	log, ok := loggers[name]
	if !ok {
		// SetLevel may have run before the logger existed
		level, set := levels[name]
		if !set {
			level = zap.NewAtomicLevelAt(defaultLevel)
			levels[name] = level
		}

		log = zap.New(&sharedCore{}, zap.AddCaller()).
			WithOptions(zap.IncreaseLevel(level)).
			Named(name).
			Sugar()

		loggers[name] = log
	}

	return log
}

// SetLevel changes the level of the named logger. An empty name changes
// every logger, including the ones created later.
func SetLevel(name string, level zapcore.Level) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if name != "" {
		if l, ok := levels[name]; ok {
			l.SetLevel(level)
		} else {
			levels[name] = zap.NewAtomicLevelAt(level)
		}
		return
	}

	defaultLevel = level
	for _, l := range levels {
		l.SetLevel(level)
	}
}

func ParseLevel(text string) (zapcore.Level, error) {
	return zapcore.ParseLevel(text)
}

// SetOutput sends every logger to w in the given format.
func SetOutput(format LogFormat, w io.Writer) {
	core := newCore(format, zapcore.AddSync(w))
	root.Store(&core)
}

func newCore(format LogFormat, ws zapcore.WriteSyncer) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch format {
	case JSONOutput:
		enc = zapcore.NewJSONEncoder(cfg)
	case PlaintextOutput:
		enc = zapcore.NewConsoleEncoder(cfg)
	default:
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewCore(enc, ws, zapcore.DebugLevel)
}

// sharedCore writes through whatever core SetOutput installed last.
type sharedCore struct {
	fields []zapcore.Field
}

func (c *sharedCore) current() zapcore.Core {
	core := *root.Load()
	if len(c.fields) > 0 {
		core = core.With(c.fields)
	}
	return core
}

func (c *sharedCore) Enabled(level zapcore.Level) bool {
	return (*root.Load()).Enabled(level)
}

func (c *sharedCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &sharedCore{fields: merged}
}

func (c *sharedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *sharedCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.current().Write(ent, fields)
}

func (c *sharedCore) Sync() error {
	return (*root.Load()).Sync()
}
