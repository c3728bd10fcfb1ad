package bbox

type Logger interface {
	Info(message string, module string)
	Error(string)
}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Error(string)        {}

var logger Logger = nopLogger{}

// verbosity > 1 enables per-box and per-wire messages.
var verbosity int

// SetLogger installs the logger used by the package. Passing nil restores
// the silent default.
func SetLogger(l Logger) {
	if l == nil {
		logger = nopLogger{}
		return
	}
	logger = l
}

func SetVerbosity(level int) {
	verbosity = level
}
