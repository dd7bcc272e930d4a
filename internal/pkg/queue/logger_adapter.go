package queue

import (
	"go.uber.org/zap"
)

// asynqLogger routes asynq's own logging through zap, tagged with the component.
// The logger is resolved per call so a later log.Init still takes effect.
type asynqLogger struct {
	sugar func() *zap.SugaredLogger
}

func newAsynqLogger(sugar func() *zap.SugaredLogger) *asynqLogger {
	return &asynqLogger{sugar: sugar}
}

func (l *asynqLogger) with() *zap.SugaredLogger {
	return l.sugar().With("component", "asynq")
}

func (l *asynqLogger) Debug(args ...any) { l.with().Debug(args...) }
func (l *asynqLogger) Info(args ...any)  { l.with().Info(args...) }
func (l *asynqLogger) Warn(args ...any)  { l.with().Warn(args...) }
func (l *asynqLogger) Error(args ...any) { l.with().Error(args...) }

// Fatal 由 asynq 在无法继续运行时调用，进程随之退出
func (l *asynqLogger) Fatal(args ...any) { l.with().Fatal(args...) }
