package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Port     int           `default:"3000"`
	Token    string        `split_words:"true" required:"true"`
	Timeout  time.Duration `split_words:"true" default:"5s"`
	AllowIDs []string      `envconfig:"ALLOW_IDS"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestExportEnvironmentKeepsExistingVariables(t *testing.T) {
	t.Setenv("CFGTEST_TOKEN", "from-process")
	path := writeEnvFile(t, "CFGTEST_TOKEN=from-file\nCFGTEST_TIMEOUT=2s\n")
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_TIMEOUT") })

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}

	if got := os.Getenv("CFGTEST_TOKEN"); got != "from-process" {
		t.Fatalf("CFGTEST_TOKEN = %q, want process value", got)
	}
	if got := os.Getenv("CFGTEST_TIMEOUT"); got != "2s" {
		t.Fatalf("CFGTEST_TIMEOUT = %q, want 2s", got)
	}
}

func TestLoadEnvFilesThenProcess(t *testing.T) {
	path := writeEnvFile(t, "CFGLOAD_TOKEN=abc\nCFGLOAD_ALLOW_IDS=1,2\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("CFGLOAD_TOKEN")
		_ = os.Unsetenv("CFGLOAD_ALLOW_IDS")
	})

	if err := loadEnvFiles(path); err != nil {
		t.Fatalf("loadEnvFiles() error = %v", err)
	}

	conf, err := New[sampleConfig]("CFGLOAD")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Token != "abc" || conf.Port != 3000 || conf.Timeout != 5*time.Second {
		t.Fatalf("conf = %+v", conf)
	}
	if len(conf.AllowIDs) != 2 || conf.AllowIDs[1] != "2" {
		t.Fatalf("AllowIDs = %v", conf.AllowIDs)
	}
}

func TestLoadEnvFilesMissingExplicitFile(t *testing.T) {
	if err := loadEnvFiles(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatal("loadEnvFiles() error = nil for missing file")
	}
}

func TestNewReportsMissingRequired(t *testing.T) {
	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatal("New() error = nil, want missing required variable")
	}
}
