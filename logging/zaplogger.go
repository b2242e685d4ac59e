package logging

import "go.uber.org/zap"

// NewDevLogger returns a zap logger that prints dev friendly output.
func NewDevLogger() Logger {
	l, _ := zap.NewDevelopment(zap.AddCallerSkip(2))
	return &ZapLogger{z: l.Sugar()}
}

// NewProdLogger returns a zap logger that outputs JSON.
func NewProdLogger() Logger {
	l, _ := zap.NewProduction(zap.AddCallerSkip(2))
	return &ZapLogger{z: l.Sugar()}
}

// NewNopLogger returns a logger that discards everything. This is what the
// client uses when the host application does not opt in to logging.
func NewNopLogger() Logger {
	return &ZapLogger{z: zap.NewNop().Sugar()}
}

// ZapLogger is a logging adapter for a Zap Sugared Logger.
type ZapLogger struct {
	z *zap.SugaredLogger
}

func (z *ZapLogger) Debug(args ...interface{}) {
	z.z.Debug(args...)
}

func (z *ZapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	z.z.Debugw(msg, keysAndValues...)
}

func (z *ZapLogger) Debugf(msg string, args ...interface{}) {
	z.z.Debugf(msg, args...)
}

func (z *ZapLogger) Info(args ...interface{}) {
	z.z.Info(args...)
}

func (z *ZapLogger) Infow(msg string, keysAndValues ...interface{}) {
	z.z.Infow(msg, keysAndValues...)
}

func (z *ZapLogger) Infof(msg string, args ...interface{}) {
	z.z.Infof(msg, args...)
}

func (z *ZapLogger) Warn(args ...interface{}) {
	z.z.Warn(args...)
}

func (z *ZapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	z.z.Warnw(msg, keysAndValues...)
}

func (z *ZapLogger) Warnf(msg string, args ...interface{}) {
	z.z.Warnf(msg, args...)
}

func (z *ZapLogger) Error(args ...interface{}) {
	z.z.Error(args...)
}

func (z *ZapLogger) Errorw(msg string, keysAndValues ...interface{}) {
	z.z.Errorw(msg, keysAndValues...)
}

func (z *ZapLogger) Errorf(msg string, args ...interface{}) {
	z.z.Errorf(msg, args...)
}

func (z *ZapLogger) Named(name string) Logger {
	return &ZapLogger{z: z.z.Named(name)}
}

func (z *ZapLogger) With(field string, value interface{}) Logger {
	return &ZapLogger{z: z.z.With(field, value)}
}

// nopLogger is returned by FromContext when no logger has been attached.
type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                         {}
func (nopLogger) Debugw(msg string, keysAndValues ...interface{})   {}
func (nopLogger) Debugf(msg string, args ...interface{})            {}
func (nopLogger) Info(args ...interface{})                          {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})    {}
func (nopLogger) Infof(msg string, args ...interface{})             {}
func (nopLogger) Warn(args ...interface{})                          {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})    {}
func (nopLogger) Warnf(msg string, args ...interface{})             {}
func (nopLogger) Error(args ...interface{})                         {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{})   {}
func (nopLogger) Errorf(msg string, args ...interface{})            {}
func (n nopLogger) Named(name string) Logger                        { return n }
func (n nopLogger) With(field string, value interface{}) Logger     { return n }
