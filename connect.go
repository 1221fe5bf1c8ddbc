package quickpiggy

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ConnConfig returns a pgx connection config pointing at this instance.
// The instance must be ready.
func (i *Instance) ConnConfig() (*pgx.ConnConfig, error) {
	if i.State() != StateReady {
		return nil, &OpError{Op: OpConnect, Path: i.SockDir(), Err: ErrNotReady}
	}

	cfg, err := pgx.ParseConfig(i.DSN())
	if err != nil {
		return nil, &OpError{Op: OpConnect, Path: i.SockDir(), Err: err}
	}
	return cfg, nil
}

// Connect opens a SQL connection to this instance over its local socket
func (i *Instance) Connect(ctx context.Context) (*pgx.Conn, error) {
	cfg, err := i.ConnConfig()
	if err != nil {
		return nil, err
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, &OpError{Op: OpConnect, Path: i.SockDir(), Err: err}
	}
	return conn, nil
}
