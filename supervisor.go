package quickpiggy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// supervisor owns the external postgres process and tracks its lifecycle
// through the NotStarted, Starting, Ready, Stopping and Stopped states.
type supervisor struct {
	cfg  *Config
	bins *binaries

	// mu protects state transitions and the process handle
	mu    sync.Mutex
	state State
	cmd   *exec.Cmd

	// done is closed by the wait goroutine once the process has exited
	done chan struct{}
}

func newSupervisor(cfg *Config, bins *binaries) *supervisor {
	return &supervisor{
		cfg:   cfg,
		bins:  bins,
		state: StateNotStarted,
	}
}

// State returns the current lifecycle state
func (s *supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *supervisor) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.cfg.Logger.Debug().Stringer("state", st).Msg("state change")
}

// sockPath returns the conventional Unix-domain socket file path for the
// configured socket directory and port
func (s *supervisor) sockPath() string {
	return filepath.Join(s.cfg.SockDir, fmt.Sprintf(SocketPattern, s.cfg.Port))
}

// start spawns the postgres process and blocks until it accepts connections
// or fails. The context bounds the whole sequence; cfg.StartTimeout is
// applied on top when set.
func (s *supervisor) start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateNotStarted {
		s.mu.Unlock()
		return &OpError{Op: OpStart, Path: s.cfg.DataDir, Err: ErrAlreadyStarted}
	}
	s.mu.Unlock()

	// Another running server owning the datadir is detected by its pid
	// marker. This is advisory, not an OS-level lock.
	lockPath := filepath.Join(s.cfg.DataDir, LockFile)
	if info, err := os.Stat(lockPath); err == nil && info.Mode().IsRegular() {
		return &OpError{Op: OpStart, Path: lockPath, Err: ErrDataDirLocked}
	}

	args := []string{
		"--listen_addresses=" + s.cfg.ListenAddresses,
		fmt.Sprintf("--port=%d", s.cfg.Port),
		"-D", s.cfg.DataDir,
		"-k", s.cfg.SockDir,
	}
	args = append(args, s.cfg.ExtraArgs...)

	cmd := exec.Command(s.bins.postgres, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	s.cfg.Logger.Debug().
		Str("postgres", s.bins.postgres).
		Strs("args", args).
		Msg("spawning server")

	if err := cmd.Start(); err != nil {
		return &OpError{Op: OpStart, Path: s.bins.postgres, Err: err}
	}

	s.mu.Lock()
	s.cmd = cmd
	s.state = StateStarting
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		err := cmd.Wait()
		s.cfg.Logger.Debug().Err(err).Msg("server process exited")
		close(s.done)
	}()

	if s.cfg.StartTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.StartTimeout)
		defer cancel()
	}

	if err := s.waitForSocket(ctx); err != nil {
		return err
	}

	// The socket existing does not mean the server takes connections yet,
	// so keep probing with an actual client until it answers.
	if err := s.probeUntilReady(ctx); err != nil {
		return err
	}

	s.setState(StateReady)
	s.cfg.Logger.Info().
		Str("sockdir", s.cfg.SockDir).
		Int("port", s.cfg.Port).
		Int("pid", cmd.Process.Pid).
		Msg("server ready")
	return nil
}

// stop requests a fast shutdown and blocks until the process has exited.
// It is a no-op when the process is already gone, so calling it twice is
// safe. If the instance is volatile the data directory is removed after the
// wait, best effort.
func (s *supervisor) stop(ctx context.Context) error {
	s.mu.Lock()
	cmd, done := s.cmd, s.done
	if cmd == nil || s.state == StateStopped {
		s.state = StateStopped
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopping
	s.mu.Unlock()

	if s.cfg.KeepRunning {
		// Detached instance: leave the server running. The wait goroutine
		// keeps reaping, so no zombie is left if it exits before we do.
		s.cfg.Logger.Info().Int("pid", cmd.Process.Pid).Msg("detaching, server kept running")
		s.setState(StateStopped)
		return nil
	}

	s.cfg.Logger.Debug().Int("pid", cmd.Process.Pid).Msg("sending fast shutdown signal")

	// SIGINT asks postgres for a fast shutdown: abort open connections
	// instead of draining them. A dead process is not an error here.
	if err := cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return &OpError{Op: OpStop, Path: s.cfg.DataDir, Err: err}
	}

	var timeout <-chan time.Time
	if s.cfg.StopTimeout > 0 {
		t := time.NewTimer(s.cfg.StopTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-done:
	case <-timeout:
		s.cfg.Logger.Warn().Msg("shutdown wait elapsed, killing server")
		_ = cmd.Process.Kill()
		<-done
	case <-ctx.Done():
		return &OpError{Op: OpStop, Path: s.cfg.DataDir, Err: ctx.Err()}
	}

	s.setState(StateStopped)

	if s.cfg.Volatile {
		s.cfg.Logger.Debug().Str("datadir", s.cfg.DataDir).Msg("removing volatile datadir")
		_ = os.RemoveAll(s.cfg.DataDir)
	}
	return nil
}

// pid returns the server process id, or 0 when no process is owned
func (s *supervisor) pid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}
