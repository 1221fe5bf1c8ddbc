package quickpiggy

import (
	"context"
	"os"
	"os/exec"
	"strconv"
)

// Instance is one launched PostgreSQL server. It is created by Start and
// owned by the caller: terminate it with Terminate or Close, or construct it
// with WithKeepRunning to detach the server and leave it alive.
type Instance struct {
	cfg  *Config
	bins *binaries
	sup  *supervisor

	params ConnParams
}

// Start launches a PostgreSQL instance and blocks until it accepts
// connections. On success the caller owns the returned Instance and is
// responsible for terminating it (unless constructed with WithKeepRunning).
//
// The sequence is: locate the binaries, initialize the data directory if
// needed, start the server, wait for readiness, then create the configured
// database if any. A database-creation failure tears the just-started server
// down again before the error is returned, so no process leaks.
func Start(ctx context.Context, opts ...Option) (*Instance, error) {
	cfg := newConfig(opts...)

	bins, err := locateBinaries(cfg.ExtraPaths)
	if err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		dir, err := os.MkdirTemp("", "quickpiggy-")
		if err != nil {
			return nil, &OpError{Op: OpStart, Path: os.TempDir(), Err: err}
		}
		cfg.DataDir = dir
	}
	if cfg.SockDir == "" {
		cfg.SockDir = cfg.DataDir
	}

	// A failed initdb may leave the datadir partially initialized; it is
	// not cleaned up, so the state it was left in can be inspected.
	if err := ensureInitialized(bins.initdb, cfg.DataDir); err != nil {
		return nil, err
	}

	i := &Instance{
		cfg:  cfg,
		bins: bins,
		sup:  newSupervisor(cfg, bins),
	}

	if err := i.sup.start(ctx); err != nil {
		return nil, err
	}

	i.params = ConnParams{Host: cfg.SockDir, Port: cfg.Port}

	if cfg.CreateDB != "" {
		if err := i.CreateDB(ctx, cfg.CreateDB); err != nil {
			// Tear the fresh server down rather than leak it.
			_ = i.sup.stop(context.WithoutCancel(ctx))
			return nil, err
		}
		i.params.DBName = cfg.CreateDB
	}

	return i, nil
}

// CreateDB creates a database with the given name on the running server
func (i *Instance) CreateDB(ctx context.Context, dbname string) error {
	if i.State() != StateReady {
		return &OpError{Op: OpCreateDB, Path: dbname, Err: ErrNotReady}
	}

	i.cfg.Logger.Debug().Str("dbname", dbname).Msg("creating database")

	cmd := exec.CommandContext(ctx, i.bins.createdb,
		"-h", i.cfg.SockDir,
		"-p", strconv.Itoa(i.cfg.Port),
		dbname,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &OpError{Op: OpCreateDB, Path: dbname, Output: string(out), Err: err}
	}
	return nil
}

// Terminate stops the server with a fast shutdown and, for volatile
// instances, removes the data directory. It blocks while the server shuts
// down. Calling it on an already-stopped instance returns nil. For
// keep-running instances it detaches instead of stopping.
func (i *Instance) Terminate(ctx context.Context) error {
	return i.sup.stop(ctx)
}

// Close implements io.Closer by terminating the instance
func (i *Instance) Close() error {
	return i.Terminate(context.Background())
}

// State returns the current lifecycle state of the server
func (i *Instance) State() State {
	return i.sup.State()
}

// Params returns the connection parameters of the ready instance
func (i *Instance) Params() ConnParams {
	return i.params
}

// DSN returns the connection parameters as key='value' pairs
func (i *Instance) DSN() string {
	return i.params.DSN()
}

// URI returns the connection parameters as a postgresql:// URI
func (i *Instance) URI() string {
	return i.params.URI()
}

// DataDir returns the server's data directory
func (i *Instance) DataDir() string {
	return i.cfg.DataDir
}

// SockDir returns the directory holding the server's socket file
func (i *Instance) SockDir() string {
	return i.cfg.SockDir
}

// Port returns the configured port
func (i *Instance) Port() int {
	return i.cfg.Port
}

// PID returns the server process id, or 0 before the process is spawned
func (i *Instance) PID() int {
	return i.sup.pid()
}
