package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const ansiReset = "\x1b[0m"

var levelStyles = []struct {
	min   slog.Level
	label string
	color string
}{
	{slog.LevelError, "ERROR", "\x1b[31m"},
	{slog.LevelWarn, "WARN", "\x1b[33m"},
	{slog.LevelInfo, "INFO", "\x1b[36m"},
	{slog.Level(math.MinInt), "DEBUG", "\x1b[90m"},
}

const keyColor = "\x1b[90m"

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) write(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(p)
	return err
}

// consoleHandler writes one human readable line per record:
//
//	15:04:05 INFO chunk: chunk written path=/tmp/a.srt records=3
//
// Attributes bound through WithAttrs are rendered once and reused.
type consoleHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	color     bool
	source    bool
	component string
	group     string
	bound     []byte
}

func newConsoleHandler(w io.Writer, level slog.Leveler, source, color bool) *consoleHandler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, source: source, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, rec slog.Record) error {
	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	label, color := styleFor(rec.Level)

	component := h.component
	var tail []byte
	rec.Attrs(func(a slog.Attr) bool {
		tail = h.appendAttr(tail, h.group, a, &component)
		return true
	})

	line := make([]byte, 0, 96+len(h.bound)+len(tail))
	line = ts.AppendFormat(line, time.TimeOnly)
	line = append(line, ' ')
	line = h.appendColored(line, color, label)
	line = append(line, ' ')
	if component != "" {
		line = append(line, component...)
		line = append(line, ": "...)
	}
	msg := strings.TrimSpace(rec.Message)
	if msg == "" {
		msg = "(no message)"
	}
	line = append(line, msg...)
	if h.source {
		if src := rec.Source(); src != nil && src.File != "" {
			line = h.appendColored(line, keyColor, fmt.Sprintf(" [%s:%d]", filepath.Base(src.File), src.Line))
		}
	}
	line = append(line, h.bound...)
	line = append(line, tail...)
	line = append(line, '\n')
	return h.out.write(line)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.bound = append([]byte(nil), h.bound...)
	for _, a := range attrs {
		next.bound = next.appendAttr(next.bound, next.group, a, &next.component)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// appendAttr renders a as " key=value", flattening groups into dotted keys.
// The first component attribute becomes the line prefix instead.
func (h *consoleHandler) appendAttr(dst []byte, prefix string, a slog.Attr, component *string) []byte {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range v.Group() {
			dst = h.appendAttr(dst, prefix, member, component)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	if prefix == "" && a.Key == FieldComponent {
		if *component == "" {
			*component = v.String()
		}
		return dst
	}
	dst = append(dst, ' ')
	dst = h.appendColored(dst, keyColor, prefix+a.Key+"=")
	return appendValue(dst, v)
}

func (h *consoleHandler) appendColored(dst []byte, color, text string) []byte {
	if !h.color {
		return append(dst, text...)
	}
	dst = append(dst, color...)
	dst = append(dst, text...)
	return append(dst, ansiReset...)
}

func styleFor(level slog.Level) (string, string) {
	for _, s := range levelStyles {
		if level >= s.min {
			return s.label, s.color
		}
	}
	return "DEBUG", keyColor
}

func appendValue(dst []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindBool:
		return strconv.AppendBool(dst, v.Bool())
	case slog.KindInt64:
		return strconv.AppendInt(dst, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(dst, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(dst, v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return append(dst, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().UTC().AppendFormat(dst, time.RFC3339)
	}
	s := v.String()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

// newJSONHandler emits records with a "ts" RFC 3339 UTC timestamp, lower
// case levels and file:line sources.
func newJSONHandler(w io.Writer, level slog.Leveler, source bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   source,
		ReplaceAttr: rewriteJSONAttr,
	})
}

func rewriteJSONAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			return slog.String("ts", t.UTC().Format(time.RFC3339))
		}
		a.Key = "ts"
	case slog.LevelKey:
		return slog.String(slog.LevelKey, strings.ToLower(a.Value.String()))
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
		}
	}
	return a
}

// teeHandler forwards each record to every sink enabled for its level.
type teeHandler []slog.Handler

func tee(sinks ...slog.Handler) slog.Handler {
	var live teeHandler
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return live[0]
	}
	return live
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range t {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, s := range t {
		if s.Enabled(ctx, rec.Level) {
			errs = append(errs, s.Handle(ctx, rec.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (t teeHandler) each(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, s := range t {
		out[i] = fn(s)
	}
	return out
}
