package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"budget/internal/config"
	applog "budget/internal/log"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BUDGET_CLI_TEST_VAR=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BUDGET_CLI_TEST_VAR") })

	LoadEnvFile(path)

	if got := os.Getenv("BUDGET_CLI_TEST_VAR"); got != "from-dotenv" {
		t.Errorf("BUDGET_CLI_TEST_VAR = %q, want from-dotenv", got)
	}

	// Missing files are ignored.
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "loud", LogFormat: "json"}, applog.ComponentHTTP, &buf)

	if logger.Component() != applog.ComponentHTTP {
		t.Errorf("component = %q, want %q", logger.Component(), applog.ComponentHTTP)
	}
	out := buf.String()
	if !strings.Contains(out, "Falling back to info level") {
		t.Errorf("expected fallback warning, got %q", out)
	}
	if !strings.Contains(out, `"component":"`+applog.ComponentHTTP+`"`) {
		t.Errorf("expected component field in %q", out)
	}
}

func TestInitBackend(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Output: &buf})

	t.Run("memory", func(t *testing.T) {
		res, err := InitBackend(context.Background(), logger, &config.Config{
			DataBackend: "memory",
			DataDir:     t.TempDir(),
		})
		if err != nil {
			t.Fatalf("InitBackend: %v", err)
		}
		defer res.Close()
		if res.Store == nil {
			t.Fatal("expected a store")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := InitBackend(context.Background(), logger, &config.Config{
			DataBackend:  "sqlite",
			SQLiteDBPath: filepath.Join(t.TempDir(), "budget.db"),
		})
		if err != nil {
			t.Fatalf("InitBackend: %v", err)
		}
		defer res.Close()
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := InitBackend(context.Background(), logger, &config.Config{DataBackend: "sheets"}); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}
