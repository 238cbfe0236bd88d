package logx

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitSetsLevelAndContextFallback(t *testing.T) {
	Init(Config{Debug: true})
	if log.Logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %s, want debug", log.Logger.GetLevel())
	}
	if zerolog.DefaultContextLogger != &log.Logger {
		t.Fatal("DefaultContextLogger does not point at the global logger")
	}
	if l := log.Ctx(context.Background()); l.GetLevel() == zerolog.Disabled {
		t.Fatal("log.Ctx() on a bare context is disabled")
	}

	Init()
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %s, want info", log.Logger.GetLevel())
	}
}
