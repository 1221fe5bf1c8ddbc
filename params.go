package quickpiggy

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

// ConnParams is a read-only view of a ready instance's connection
// parameters. Host is the socket directory for local-socket instances.
type ConnParams struct {
	Host   string
	Port   int
	DBName string
}

// DSN returns the parameters as space-joined key='value' pairs, the form
// expected by libpq-style client libraries. Without a created database the
// caller adds the dbname pair itself.
func (p ConnParams) DSN() string {
	pairs := []string{
		fmt.Sprintf("host='%s'", p.Host),
		fmt.Sprintf("port='%d'", p.Port),
	}
	if p.DBName != "" {
		pairs = append(pairs, fmt.Sprintf("dbname='%s'", p.DBName))
	}
	return strings.Join(pairs, " ")
}

// URI returns the parameters as a postgresql:// URI. The host is carried in
// the query string so that socket directory paths survive URI parsing.
func (p ConnParams) URI() string {
	q := url.Values{}
	q.Set("host", p.Host)
	q.Set("port", strconv.Itoa(p.Port))
	return fmt.Sprintf("postgresql:///%s?%s", url.PathEscape(p.DBName), q.Encode())
}

// WriteEnvFile atomically writes the parameters as PGHOST, PGPORT and, when
// a database was created, PGDATABASE assignments, one per line, so shell
// tooling can source them. The file is replaced atomically; a crash never
// leaves a partially written file behind.
func (p ConnParams) WriteEnvFile(path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "PGHOST=%s\n", p.Host)
	fmt.Fprintf(&b, "PGPORT=%d\n", p.Port)
	if p.DBName != "" {
		fmt.Fprintf(&b, "PGDATABASE=%s\n", p.DBName)
	}

	if err := renameio.WriteFile(path, []byte(b.String()), FileMode); err != nil {
		return &OpError{Op: OpWriteParams, Path: path, Err: err}
	}
	return nil
}
