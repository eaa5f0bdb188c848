package core

// Logger is implemented by all logging sinks the app can report to.
//
// expected args: error, map[string]interface{}, student.Student
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
