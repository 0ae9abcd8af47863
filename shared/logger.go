package shared

// Logger is the leveled logging interface used throughout okta-aws.  Library packages only
// depend on this interface, the concrete logger (simple-logger) is wired up by the cli
// package during program initialization, and anything satisfying the interface can be
// shimmed in by embedders or tests.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warningf(string, ...interface{})
	Errorf(string, ...interface{})
}

// DefaultLogger is the fallback Logger used when nothing was configured.  It discards everything.
type DefaultLogger bool

// Debugf does nothing.
func (l *DefaultLogger) Debugf(string, ...interface{}) {}

// Infof does nothing.
func (l *DefaultLogger) Infof(string, ...interface{}) {}

// Warningf does nothing.
func (l *DefaultLogger) Warningf(string, ...interface{}) {}

// Errorf does nothing.
func (l *DefaultLogger) Errorf(string, ...interface{}) {}
