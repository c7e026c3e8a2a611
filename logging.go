package scorecard

import "time"

// LogLevel classifies editor log events.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// LogEvent describes something the editor wants to report.
type LogEvent struct {
	Level   LogLevel
	Message string
	Path    string
	Trace   *PathTrace
	Err     error
}

// Logger records editor events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// WithLogger attaches a logger to the editor. Passing nil silences it.
func WithLogger(logger Logger) Option {
	return func(cfg *editorConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// EvaluatorLogEvent describes a binding evaluation attempt.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Path     string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger to the editor.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *editorConfig) {
		if logger == nil {
			cfg.evaluatorLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evaluatorLogger = logger
	}
}
