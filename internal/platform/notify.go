package platform

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Notifier shows a diagnostic notice to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// WriterNotifier prints notices as lines on w.
type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(message string) {
	fmt.Fprintln(n.w, message)
}

// LogNotifier logs notices at info level.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(message string) {
	n.logger.Info("Notice", zap.String("message", message))
}
