package quickpiggy

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFakeBin installs an executable shell script named name into dir
func writeFakeBin(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakePostgresScript is a stand-in server: it parses the argument vector the
// way postgres does, drops a pid marker, creates the socket file, and idles
// until interrupted. It self-destructs after ~5s so a test that loses track
// of it cannot leak a process.
const fakePostgresScript = `port=5432
datadir=""
sockdir=""
while [ $# -gt 0 ]; do
  case "$1" in
    --port=*) port="${1#--port=}" ;;
    -D) shift; datadir="$1" ;;
    -k) shift; sockdir="$1" ;;
  esac
  shift
done
echo $$ > "$datadir/postmaster.pid"
touch "$sockdir/.s.PGSQL.$port"
trap 'rm -f "$datadir/postmaster.pid" "$sockdir/.s.PGSQL.$port"; exit 0' INT TERM
n=0
while [ $n -lt 100 ]; do
  sleep 0.05
  n=$((n+1))
done
rm -f "$datadir/postmaster.pid"
exit 1
`

// fakeInitDBScript marks the datadir initialized and appends to an
// invocation log so tests can assert idempotence
const fakeInitDBScript = `datadir=""
for arg; do datadir="$arg"; done
mkdir -p "$datadir"
touch "$datadir/postgresql.conf"
echo "initdb $*" >> "${QUICKPIGGY_TEST_LOG:-/dev/null}"
`

// installFakeTools writes working stand-ins for all four binaries into a
// fresh directory and returns it for use with WithExtraPath
func installFakeTools(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFakeBin(t, dir, BinPostgres, fakePostgresScript)
	writeFakeBin(t, dir, BinInitDB, fakeInitDBScript)
	writeFakeBin(t, dir, BinCreateDB, "exit 0\n")
	writeFakeBin(t, dir, BinPsql, "exit 0\n")
	return dir
}
