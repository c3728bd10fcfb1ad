package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Handler writes "[time] [value]... message" lines. Attribute keys and
// groups are dropped, only values are printed.
type Handler struct {
	level slog.Leveler
	attrs []slog.Attr
	mu    *sync.Mutex
	out   io.Writer
}

func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{level: level, mu: &sync.Mutex{}, out: out}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{level: h.level, attrs: merged, mu: h.mu, out: h.out}
}

func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var line bytes.Buffer
	line.WriteString(r.Time.Format("[2006/01/02 15:04:05]"))

	writeValue := func(a slog.Attr) bool {
		fmt.Fprintf(&line, " [%s]", a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		writeValue(a)
	}
	r.Attrs(writeValue)

	line.WriteByte(' ')
	line.WriteString(r.Message)
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line.Bytes())
	return err
}

// Logger sends informative messages to InfoLog and errors to ErrorLog. It
// satisfies the bbox.Logger interface.
type Logger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func NewLogger(out io.Writer, errOut io.Writer) Logger {
	return Logger{
		InfoLog:  slog.New(NewHandler(out, slog.LevelDebug)),
		ErrorLog: slog.New(slog.NewJSONHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}
