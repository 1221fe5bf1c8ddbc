package quickpiggy

import (
	"os"
	"path/filepath"
)

// binaries holds the resolved paths to the four required PostgreSQL tools
type binaries struct {
	postgres string
	initdb   string
	createdb string
	psql     string
}

// locateBinaries resolves all required executables up front so that a
// missing tool fails construction before any process is spawned
func locateBinaries(extraPaths []string) (*binaries, error) {
	b := &binaries{}
	for _, bin := range []struct {
		name string
		dst  *string
	}{
		{BinPostgres, &b.postgres},
		{BinInitDB, &b.initdb},
		{BinCreateDB, &b.createdb},
		{BinPsql, &b.psql},
	} {
		path, err := lookPath(bin.name, extraPaths)
		if err != nil {
			return nil, err
		}
		*bin.dst = path
	}
	return b, nil
}

// lookPath searches the extra directories followed by the directories in
// $PATH, in order, and returns the first existing executable file named
// name. It has no side effects.
func lookPath(name string, extraPaths []string) (string, error) {
	dirs := make([]string, 0, len(extraPaths)+8)
	dirs = append(dirs, extraPaths...)
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		try := filepath.Join(dir, name)
		info, err := os.Stat(try)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0o111 != 0 {
			return try, nil
		}
	}

	return "", &OpError{Op: OpLocate, Path: name, Err: ErrBinaryNotFound}
}
