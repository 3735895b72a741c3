package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/cacheaside"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Warn("cacheaside: store degraded", cacheaside.Fields{"tier": "remote", "err": errors.New("down")})
	l.Debug("d", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel || e.ContextMap()["tier"] != "remote" || e.ContextMap()["err"] != "down" {
		t.Fatalf("entry %+v ctx %v", e.Entry, e.ContextMap())
	}
}
