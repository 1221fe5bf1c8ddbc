// Package quickpiggy launches an impromptu PostgreSQL server instance for
// testing and development use, hassle free.
//
// The core functionality centers around Start, which locates the PostgreSQL
// binaries, initializes a data directory if needed, boots the server, waits
// until it accepts connections, and hands back an Instance with its
// connection parameters:
//
//	pig, err := quickpiggy.Start(context.Background(),
//	    quickpiggy.WithVolatile(true),
//	    quickpiggy.WithCreateDB("demo"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pig.Close()
//
//	conn, err := pig.Connect(ctx)
//
// Without options, Start creates the data directory under a temporary
// directory and runs postgres until Terminate is called. The server listens
// on a local Unix-domain socket only; pass WithListenAddresses to open a TCP
// socket as well (you'll need a pg_hba.conf for that to be useful).
//
// # Manager for Bulk Operations
//
// The Manager type is provided as a convenience for applications that need
// several independent instances at once, such as test suites giving each
// package its own throwaway server. It remains optional - the Instance type
// provides all core functionality.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - No state beyond what PostgreSQL itself keeps on disk
//   - Context-aware startup and shutdown with explicit timeouts
//   - Explicit resource ownership: the caller terminates the instance,
//     with WithKeepRunning as the opt-out for detached, long-lived servers
//   - Faithful readiness detection (socket presence alone is not enough;
//     the server must answer an actual client probe)
package quickpiggy
