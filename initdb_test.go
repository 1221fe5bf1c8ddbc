package quickpiggy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureInitialized(t *testing.T) {
	tools := installFakeTools(t)
	initdb := filepath.Join(tools, BinInitDB)

	t.Run("initializes empty dir", func(t *testing.T) {
		datadir := filepath.Join(t.TempDir(), "data")
		logFile := filepath.Join(t.TempDir(), "invocations.log")
		t.Setenv("QUICKPIGGY_TEST_LOG", logFile)

		if err := ensureInitialized(initdb, datadir); err != nil {
			t.Fatal(err)
		}

		if !initialized(datadir) {
			t.Error("datadir not marked initialized")
		}

		log, err := os.ReadFile(logFile)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(string(log), "initdb"); got != 1 {
			t.Errorf("initdb ran %d times, want 1", got)
		}
		if !strings.Contains(string(log), "-E UTF8") {
			t.Errorf("missing encoding option in %q", log)
		}
	})

	t.Run("idempotent on initialized dir", func(t *testing.T) {
		datadir := filepath.Join(t.TempDir(), "data")
		logFile := filepath.Join(t.TempDir(), "invocations.log")
		t.Setenv("QUICKPIGGY_TEST_LOG", logFile)

		if err := ensureInitialized(initdb, datadir); err != nil {
			t.Fatal(err)
		}
		if err := ensureInitialized(initdb, datadir); err != nil {
			t.Fatal(err)
		}

		log, err := os.ReadFile(logFile)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(string(log), "initdb"); got != 1 {
			t.Errorf("initdb ran %d times, want 1", got)
		}
	})

	t.Run("failure embeds output", func(t *testing.T) {
		broken := t.TempDir()
		brokenInitdb := writeFakeBin(t, broken, BinInitDB, "echo 'disk on fire'; exit 1\n")

		err := ensureInitialized(brokenInitdb, filepath.Join(t.TempDir(), "data"))
		if err == nil {
			t.Fatal("expected error")
		}

		var opErr *OpError
		if !errors.As(err, &opErr) {
			t.Fatalf("err = %T, want *OpError", err)
		}
		if opErr.Op != OpInitDB {
			t.Errorf("Op = %v, want %v", opErr.Op, OpInitDB)
		}
		if !strings.Contains(err.Error(), "disk on fire") {
			t.Errorf("error does not embed output: %v", err)
		}
	})
}
