package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	purple = "\033[35m"
	cyan   = "\033[36m"
	gray   = "\033[37m"
	white  = "\033[97m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: purple,
	slog.LevelInfo:  green,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

// New builds the slog handler for the configured output format: "pretty"
// for colored development logs, anything else for machine-readable JSON.
func New(w io.Writer, format string, level slog.Level) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "pretty") {
		return NewPrettyHandler(w, level)
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// ParseLevel maps the configured level name onto a slog level, falling back
// to info for anything unrecognized.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PrettyHandler renders records as single colored lines for terminals.
// Production runs use the JSON handler instead.
type PrettyHandler struct {
	level slog.Level
	w     io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewPrettyHandler(w io.Writer, level slog.Level) *PrettyHandler {
	return &PrettyHandler{
		level: level,
		w:     w,
		mu:    &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder

	fmt.Fprintf(&line, "%s%s%s ", gray, r.Time.Format("15:04:05.000"), reset)

	color, ok := levelColors[r.Level]
	if !ok {
		color = white
	}
	fmt.Fprintf(&line, "%s%-5s%s ", color, r.Level.String(), reset)

	fmt.Fprintf(&line, "%s%s%s", white, r.Message, reset)

	for _, a := range h.attrs {
		h.appendAttr(&line, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&line, a)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, line.String())
	return err
}

func (h *PrettyHandler) appendAttr(line *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}

	keyColor := cyan
	if key == "error" || strings.HasPrefix(key, "error_") {
		keyColor = red
	}

	value := a.Value.Any()
	switch v := value.(type) {
	case time.Time:
		value = v.Format(time.RFC3339)
	case string:
		if strings.ContainsAny(v, " \t") {
			value = fmt.Sprintf("%q", v)
		}
	}

	fmt.Fprintf(line, " %s%s%s=%v", keyColor, key, reset, value)
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	clone := *h
	clone.attrs = merged

	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}

	return &clone
}
