package core

// Logger is the minimal logging surface the renderer and hosts depend on
type Logger interface {
	Printf(format string, args ...interface{})
}
