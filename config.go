package quickpiggy

import (
	"time"

	"github.com/rs/zerolog"
)

// Config holds the construction-time settings for an Instance.
// Zero values mean "use the default described on each field".
type Config struct {
	// ExtraPaths are directories searched for the PostgreSQL binaries before
	// the directories in $PATH
	ExtraPaths []string

	// DataDir is the postgres data directory. It is initialized if it does
	// not contain a postgresql.conf. If empty, a temporary directory is
	// created and used.
	DataDir string

	// SockDir is the directory the server creates its Unix-domain socket in.
	// Defaults to DataDir.
	SockDir string

	// ListenAddresses are the IP addresses to listen on, comma separated.
	// Default is empty: no TCP socket at all, local socket only.
	ListenAddresses string

	// Port is the TCP port to listen on. Only effective with
	// ListenAddresses set, but it also determines the socket file name.
	Port int

	// CreateDB, when non-empty, names a database to create once the server
	// is ready
	CreateDB string

	// KeepRunning detaches the server: Terminate releases the process
	// instead of stopping it, and the data directory is preserved
	KeepRunning bool

	// Volatile removes the data directory and its contents after the server
	// has been stopped
	Volatile bool

	// ExtraArgs are appended verbatim to the postgres argument vector
	ExtraArgs []string

	// PollInterval is the interval between readiness checks
	PollInterval time.Duration

	// StartTimeout bounds the whole start sequence. Zero waits forever.
	StartTimeout time.Duration

	// StopTimeout bounds the wait for the process to exit after the shutdown
	// signal; when it elapses the process is killed. Zero waits forever.
	StopTimeout time.Duration

	// Logger receives lifecycle events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Option configures an Instance at construction time
type Option func(*Config)

// WithExtraPath prepends directories to the binary search path
func WithExtraPath(dirs ...string) Option {
	return func(c *Config) {
		c.ExtraPaths = append(c.ExtraPaths, dirs...)
	}
}

// WithDataDir sets the data directory instead of a temporary one
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithSockDir sets the socket directory instead of the data directory
func WithSockDir(dir string) Option {
	return func(c *Config) {
		c.SockDir = dir
	}
}

// WithListenAddresses makes the server listen on the given comma-separated
// IP addresses in addition to the local socket
func WithListenAddresses(addrs string) Option {
	return func(c *Config) {
		c.ListenAddresses = addrs
	}
}

// WithPort sets the server port
func WithPort(port int) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithCreateDB creates the named database once the server is ready
func WithCreateDB(dbname string) Option {
	return func(c *Config) {
		c.CreateDB = dbname
	}
}

// WithKeepRunning leaves the server running after Terminate or Close
func WithKeepRunning(keep bool) Option {
	return func(c *Config) {
		c.KeepRunning = keep
	}
}

// WithVolatile removes the data directory after the server stops
func WithVolatile(volatile bool) Option {
	return func(c *Config) {
		c.Volatile = volatile
	}
}

// WithExtraArgs appends extra arguments to the postgres invocation
func WithExtraArgs(args ...string) Option {
	return func(c *Config) {
		c.ExtraArgs = append(c.ExtraArgs, args...)
	}
}

// WithPollInterval sets the readiness polling interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		c.PollInterval = d
	}
}

// WithStartTimeout bounds the start sequence. Zero waits forever.
func WithStartTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.StartTimeout = d
	}
}

// WithStopTimeout bounds the shutdown wait, killing the process when it
// elapses. Zero waits forever.
func WithStopTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.StopTimeout = d
	}
}

// WithLogger sets the logger for lifecycle events
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// newConfig applies the options over the defaults
func newConfig(opts ...Option) *Config {
	c := &Config{
		Port:         DefaultPort,
		PollInterval: DefaultPollInterval,
		StartTimeout: DefaultStartTimeout,
		StopTimeout:  DefaultStopTimeout,
		Logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}

	return c
}
