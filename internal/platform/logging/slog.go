package logging

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Slog returns a log/slog logger that writes through the same zap core, so
// HTTP edge logs and client logs share one encoder and one sink.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&slogHandler{core: l.Zap().Core()})
}

type slogHandler struct {
	core   zapcore.Core
	fields []zap.Field
	groups []string
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.core.Enabled(zapLevel(level))
}

func (h *slogHandler) Handle(ctx context.Context, rec slog.Record) error {
	ce := h.core.Check(zapcore.Entry{
		Level:   zapLevel(rec.Level),
		Time:    rec.Time,
		Message: rec.Message,
	}, nil)
	if ce == nil {
		return nil
	}

	fields := make([]zap.Field, 0, len(h.fields)+rec.NumAttrs()+2)
	fields = append(fields, h.fields...)
	rec.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, h.field(attr))
		return true
	})
	fields = append(fields, traceFields(ctx)...)
	ce.Write(fields...)

	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		next.fields = append(next.fields, h.field(attr))
	}
	return next
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *slogHandler) clone() *slogHandler {
	return &slogHandler{
		core:   h.core,
		fields: append([]zap.Field(nil), h.fields...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *slogHandler) field(attr slog.Attr) zap.Field {
	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return zap.String(key, value.String())
	case slog.KindInt64:
		return zap.Int64(key, value.Int64())
	case slog.KindUint64:
		return zap.Uint64(key, value.Uint64())
	case slog.KindFloat64:
		return zap.Float64(key, value.Float64())
	case slog.KindBool:
		return zap.Bool(key, value.Bool())
	case slog.KindDuration:
		return zap.Duration(key, value.Duration())
	case slog.KindTime:
		return zap.Time(key, value.Time())
	}

	if err, ok := value.Any().(error); ok {
		return zap.NamedError(key, err)
	}
	return zap.Any(key, value.Any())
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
