package quickpiggy

import "time"

// PostgreSQL file and path conventions
const (
	// LockFile is the marker file whose presence means a running server
	// already owns the data directory
	LockFile = "postmaster.pid"

	// ConfFile is the marker file whose presence means the data directory
	// has already been initialized by initdb
	ConfFile = "postgresql.conf"

	// SocketPattern is the printf pattern for the server's Unix-domain
	// socket file inside the socket directory, keyed by port
	SocketPattern = ".s.PGSQL.%d"
)

// Binary names resolved on the search path
const (
	// BinPostgres is the server binary
	BinPostgres = "postgres"

	// BinInitDB is the data directory initializer
	BinInitDB = "initdb"

	// BinCreateDB is the database-creation client
	BinCreateDB = "createdb"

	// BinPsql is the generic SQL client used as the readiness probe
	BinPsql = "psql"
)

// Defaults that can be overridden via options
const (
	// DefaultPort is the port the server listens on and the suffix of the
	// socket file name
	DefaultPort = 5432

	// DefaultPollInterval is the interval between readiness checks while
	// waiting for the server to come up
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultStartTimeout bounds the whole start sequence (socket wait plus
	// connection probing). Zero disables the bound.
	DefaultStartTimeout = time.Minute

	// DefaultStopTimeout bounds the wait for the server to exit after the
	// shutdown signal. Zero means wait indefinitely, which matches the
	// fast-shutdown semantics of the postgres interrupt signal.
	DefaultStopTimeout = 0 * time.Second
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode = 0o700

	// FileMode is the default mode for created files
	FileMode = 0o644
)

// Operation represents a lifecycle operation type
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpLocate resolves an executable on the search path
	OpLocate
	// OpInitDB initializes a data directory
	OpInitDB
	// OpStart spawns the server process
	OpStart
	// OpProbe checks that the server accepts connections
	OpProbe
	// OpCreateDB creates a database on a running server
	OpCreateDB
	// OpStop shuts the server down
	OpStop
	// OpConnect opens a SQL connection to a running server
	OpConnect
	// OpWriteParams persists connection parameters to a file
	OpWriteParams
)

// Operation string constants
const (
	opUnknownStr     = "unknown"
	opLocateStr      = "locate"
	opInitDBStr      = "initdb"
	opStartStr       = "start"
	opProbeStr       = "probe"
	opCreateDBStr    = "createdb"
	opStopStr        = "stop"
	opConnectStr     = "connect"
	opWriteParamsStr = "write-params"
)

// String returns the string representation of an Operation
func (op Operation) String() string {
	switch op {
	case OpLocate:
		return opLocateStr
	case OpInitDB:
		return opInitDBStr
	case OpStart:
		return opStartStr
	case OpProbe:
		return opProbeStr
	case OpCreateDB:
		return opCreateDBStr
	case OpStop:
		return opStopStr
	case OpConnect:
		return opConnectStr
	case OpWriteParams:
		return opWriteParamsStr
	default:
		return opUnknownStr
	}
}

// State represents the lifecycle state of a server instance
type State int

const (
	// StateNotStarted means no process has been spawned yet
	StateNotStarted State = iota
	// StateStarting means the process is running but not yet accepting
	// connections
	StateStarting
	// StateReady means the server answered the connection probe
	StateReady
	// StateStopping means a shutdown signal has been sent
	StateStopping
	// StateStopped means the process has exited. Terminal, reached either by
	// graceful shutdown or by unexpected exit.
	StateStopped
)

// State string constants
const (
	stateNotStartedStr = "not-started"
	stateStartingStr   = "starting"
	stateReadyStr      = "ready"
	stateStoppingStr   = "stopping"
	stateStoppedStr    = "stopped"
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return stateNotStartedStr
	case StateStarting:
		return stateStartingStr
	case StateReady:
		return stateReadyStr
	case StateStopping:
		return stateStoppingStr
	case StateStopped:
		return stateStoppedStr
	default:
		return "invalid"
	}
}
