package quickpiggy

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"
	"vawter.tech/stopper"
)

// waitForSocket blocks until the server's Unix-domain socket file is
// writable, the process exits, or the context ends. Socket creation is
// observed through fsnotify with a polling fallback at the configured
// interval; the notification can race the file appearing, so both paths
// check the same condition.
func (s *supervisor) waitForSocket(ctx context.Context) error {
	sockPath := s.sockPath()

	if socketWritable(sockPath) {
		return nil
	}

	events := make(chan struct{}, 1)

	sctx := stopper.WithContext(ctx)
	defer func() {
		sctx.Stop(100 * time.Millisecond)
		_ = sctx.Wait()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err == nil && watcher.Add(s.cfg.SockDir) == nil {
		sctx.Defer(func() { _ = watcher.Close() })

		sctx.Go(func(sctx *stopper.Context) error {
			for {
				select {
				case <-sctx.Stopping():
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Name == sockPath && ev.Op&(fsnotify.Create|fsnotify.Chmod) != 0 {
						select {
						case events <- struct{}{}:
						default:
						}
					}
				case _, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					// Fall back to the ticker below.
				}
			}
		})
	} else if watcher != nil {
		_ = watcher.Close()
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			s.setState(StateStopped)
			return &OpError{Op: OpStart, Path: s.bins.postgres, Err: ErrServerQuit}
		case <-ctx.Done():
			return &OpError{Op: OpStart, Path: sockPath, Err: ctx.Err()}
		case <-events:
		case <-ticker.C:
		}

		if socketWritable(sockPath) {
			return nil
		}
	}
}

// socketWritable reports whether the socket file exists and is writable by
// this process
func socketWritable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// probeUntilReady invokes psql against the socket until it succeeds. A
// non-zero exit is transient (the server is still warming up) and retried;
// any failure to even run the probe is definite and propagated.
func (s *supervisor) probeUntilReady(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		out, err := s.probe(ctx)
		if err == nil {
			return nil
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &OpError{Op: OpProbe, Path: s.bins.psql, Output: out, Err: err}
		}

		select {
		case <-s.done:
			s.setState(StateStopped)
			return &OpError{Op: OpStart, Path: s.bins.postgres, Output: out, Err: ErrServerQuit}
		case <-ctx.Done():
			return &OpError{Op: OpProbe, Path: s.bins.psql, Output: out, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

// probe runs a single `psql -l` listing against the socket
func (s *supervisor) probe(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.bins.psql,
		"-h", s.cfg.SockDir,
		"-p", strconv.Itoa(s.cfg.Port),
		"-l",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
