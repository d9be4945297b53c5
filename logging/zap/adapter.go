package zap

import (
	"go.uber.org/zap"

	"dvrouter/core"
)

// Adapter satisfies core.Logger with a *zap.Logger.
type Adapter struct {
	l *zap.Logger
}

// NewAdapter wraps l, skipping one extra frame so the reported caller is
// the router code, not this file.
func NewAdapter(l *zap.Logger) Adapter {
	return Adapter{l: l.WithOptions(zap.AddCallerSkip(1))}
}

func (a Adapter) Named(name string) core.Logger {
	return Adapter{l: a.l.Named(name)}
}

func (a Adapter) With(fields ...core.Field) core.Logger {
	return Adapter{l: a.l.With(toZap(fields)...)}
}

func (a Adapter) Debug(msg string, fields ...core.Field) {
	if ce := a.l.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (a Adapter) Info(msg string, fields ...core.Field) {
	if ce := a.l.Check(zap.InfoLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (a Adapter) Warn(msg string, fields ...core.Field) {
	if ce := a.l.Check(zap.WarnLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (a Adapter) Error(msg string, fields ...core.Field) {
	if ce := a.l.Check(zap.ErrorLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func toZap(fields []core.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Val))
	}
	return out
}
