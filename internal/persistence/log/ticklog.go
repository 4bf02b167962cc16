package log

import (
	"path/filepath"

	"termsnake/internal/sim/game"
)

// TickLogger records one game under <gameDir>/events.
type TickLogger struct{ w *JSONLZstdWriter }

func NewTickLogger(gameDir string) *TickLogger {
	return &TickLogger{w: NewJSONLZstdWriter(EventsDir(gameDir), "events")}
}

func EventsDir(gameDir string) string { return filepath.Join(gameDir, "events") }

func (l *TickLogger) WriteStart(e game.StartEntry) error { return l.w.Write(e) }
func (l *TickLogger) WriteTick(e game.TickEntry) error   { return l.w.Write(e) }
func (l *TickLogger) WriteEnd(e game.EndEntry) error     { return l.w.Write(e) }
func (l *TickLogger) Close() error                       { return l.w.Close() }
