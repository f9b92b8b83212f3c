package db

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/russross/meddler"
)

// Dialect captures what differs between the supported SQL backends.
// Queries are written once with '?' placeholders and rebound per dialect.
type Dialect struct {
	// Name is the database/sql and sql-migrate dialect name.
	Name string

	// Meddler maps structs to rows using the dialect's placeholder and quoting rules.
	Meddler *meddler.Database

	// TxOptions are passed to BeginTx for every scoped transaction.
	TxOptions *sql.TxOptions

	numbered bool
}

var (
	// SQLite relies on _txlock=immediate, so every transaction takes the write lock up front.
	SQLite = Dialect{Name: "sqlite3", Meddler: meddler.SQLite}

	// Postgres runs every transaction SERIALIZABLE; lost updates surface as conflicts.
	Postgres = Dialect{
		Name:      "postgres",
		Meddler:   meddler.PostgreSQL,
		TxOptions: &sql.TxOptions{Isolation: sql.LevelSerializable},
		numbered:  true,
	}
)

// Rebind rewrites '?' placeholders into the dialect's placeholder style.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8) //nolint:mnd
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
