package order

import "go.uber.org/zap"

// Messenger receives the user-facing notices the workflow emits: rule
// violations, confirmations, and draft prompts. The CLI prints them, tests
// record them.
type Messenger interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// LogMessenger writes notices to the structured log
type LogMessenger struct {
	Logger *zap.Logger
}

func (m LogMessenger) Success(message string) {
	m.Logger.Info(message, zap.String("notice", "success"))
}

func (m LogMessenger) Error(message string) {
	m.Logger.Warn(message, zap.String("notice", "error"))
}

func (m LogMessenger) Info(message string) {
	m.Logger.Info(message, zap.String("notice", "info"))
}

// nopMessenger swallows notices when no messenger is configured
type nopMessenger struct{}

func (nopMessenger) Success(string) {}
func (nopMessenger) Error(string)   {}
func (nopMessenger) Info(string)    {}
