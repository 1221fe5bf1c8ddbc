package quickpiggy

import (
	"os"
	"os/exec"
	"path/filepath"
)

// initialized reports whether the data directory already holds a valid
// cluster. A datadir with a postgresql.conf is assumed to be initialized; if
// the rest of it is worthless, postgres itself will complain at start.
func initialized(datadir string) bool {
	info, err := os.Stat(filepath.Join(datadir, ConfFile))
	return err == nil && info.Mode().IsRegular()
}

// ensureInitialized runs initdb against the data directory unless it is
// already initialized. Calling it twice on the same directory is a no-op.
func ensureInitialized(initdbPath, datadir string) error {
	if initialized(datadir) {
		return nil
	}

	cmd := exec.Command(initdbPath, "-E", "UTF8", datadir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &OpError{Op: OpInitDB, Path: datadir, Output: string(out), Err: err}
	}
	return nil
}
