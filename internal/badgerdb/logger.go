package badgerdb

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// slogLogger adapts a slog.Logger to badger.Logger. BadgerDB is chatty at
// info level, so its info messages are logged at debug.
type slogLogger struct {
	l *slog.Logger
}

// NewLogger returns a badger.Logger that writes to l, or nil if l is nil.
func NewLogger(l *slog.Logger) badger.Logger {
	if l == nil {
		return nil
	}
	return slogLogger{l: l.With("component", "badger")}
}

func format(f string, args []any) string {
	return strings.TrimSpace(fmt.Sprintf(f, args...))
}

func (s slogLogger) Errorf(f string, args ...any)   { s.l.Error(format(f, args)) }
func (s slogLogger) Warningf(f string, args ...any) { s.l.Warn(format(f, args)) }
func (s slogLogger) Infof(f string, args ...any)    { s.l.Debug(format(f, args)) }
func (s slogLogger) Debugf(f string, args ...any)   { s.l.Debug(format(f, args)) }
