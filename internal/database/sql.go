package database

import (
	"database/sql"
	"errors"

	"etalase/internal/errx"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/encoding"
)

type sqlDialect struct {
	driver string
	schema string
	upsert string
	get    string
	del    string
}

var sqliteDialect = sqlDialect{
	driver: "sqlite3",
	schema: `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	upsert: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	get: "SELECT value FROM kv WHERE key = ?",
	del: "DELETE FROM kv WHERE key = ?",
}

var postgresDialect = sqlDialect{
	driver: "postgres",
	schema: `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	upsert: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
	get: "SELECT value FROM kv WHERE key = $1",
	del: "DELETE FROM kv WHERE key = $1",
}

// sqlStore keeps every key in a single kv table.
type sqlStore struct {
	conn    *sql.DB
	dialect sqlDialect
	codec   encoding.Codec
}

// NewSQLiteStore opens (or creates) a SQLite file. ":memory:" is accepted.
func NewSQLiteStore(path string, codec encoding.Codec) (gokv.Store, error) {
	return openSQLStore(sqliteDialect, path, codec)
}

// NewPostgresStore connects to Postgres using a lib/pq DSN.
func NewPostgresStore(dsn string, codec encoding.Codec) (gokv.Store, error) {
	return openSQLStore(postgresDialect, dsn, codec)
}

func openSQLStore(d sqlDialect, dsn string, codec encoding.Codec) (gokv.Store, error) {
	conn, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errx.WrapStorage(err)
	}
	if d.driver == sqliteDialect.driver {
		// one connection, otherwise every pooled conn sees its own :memory: db
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errx.WrapStorage(err)
	}
	if _, err := conn.Exec(d.schema); err != nil {
		conn.Close()
		return nil, errx.WrapStorage(err)
	}
	return &sqlStore{conn: conn, dialect: d, codec: codec}, nil
}

func (s *sqlStore) Set(k string, v any) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.conn.Exec(s.dialect.upsert, k, data)
	return errx.WrapStorage(err)
}

func (s *sqlStore) Get(k string, v any) (bool, error) {
	var data []byte
	err := s.conn.QueryRow(s.dialect.get, k).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errx.WrapStorage(err)
	}
	return true, s.codec.Unmarshal(data, v)
}

func (s *sqlStore) Delete(k string) error {
	_, err := s.conn.Exec(s.dialect.del, k)
	return errx.WrapStorage(err)
}

func (s *sqlStore) Close() error {
	return s.conn.Close()
}
