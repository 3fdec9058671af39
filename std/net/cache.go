package net

import (
	"fmt"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Entry is a cached response body.
type Entry struct {
	Content string
	MaxAge  time.Duration
	Stored  time.Time
}

// Cache stores response bodies by URL. Freshness is decided by the
// Connection, not the cache.
type Cache interface {
	Get(key string) (Entry, bool, error)
	Set(key string, e Entry) error
	Delete(key string) error
}

// NoCache never stores anything.
type NoCache struct{}

func (NoCache) Get(string) (Entry, bool, error) { return Entry{}, false, nil }
func (NoCache) Set(string, Entry) error         { return nil }
func (NoCache) Delete(string) error             { return nil }

// MemoryCache keeps entries for the life of the process.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Entry)}
}

func (m *MemoryCache) Get(key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *MemoryCache) Set(key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// SQLiteCache persists entries in a sqlite database so they survive
// restarts.
type SQLiteCache struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

const schema = `CREATE TABLE IF NOT EXISTS http_cache (
	url     TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	max_age INTEGER NOT NULL,
	stored  INTEGER NOT NULL
)`

// OpenSQLiteCache opens or creates the cache database at path. Use
// ":memory:" for a throwaway cache.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	flags := sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL
	if path == ":memory:" {
		flags = sqlite.OpenReadWrite | sqlite.OpenMemory
	}
	conn, err := sqlite.OpenConn(path, flags)
	if err != nil {
		return nil, fmt.Errorf("open cache db %s: %w", path, err)
	}
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLiteCache{conn: conn}, nil
}

func (s *SQLiteCache) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e Entry
	found := false
	err := sqlitex.Execute(s.conn, `SELECT content, max_age, stored FROM http_cache WHERE url = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				e.Content = stmt.ColumnText(0)
				e.MaxAge = time.Duration(stmt.ColumnInt64(1))
				e.Stored = time.Unix(0, stmt.ColumnInt64(2))
				return nil
			},
		})
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get: %w", err)
	}
	return e, found, nil
}

func (s *SQLiteCache) Set(key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn,
		`INSERT INTO http_cache (url, content, max_age, stored) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET content = excluded.content, max_age = excluded.max_age, stored = excluded.stored`,
		&sqlitex.ExecOptions{Args: []any{key, e.Content, int64(e.MaxAge), e.Stored.UnixNano()}})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (s *SQLiteCache) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := sqlitex.Execute(s.conn, `DELETE FROM http_cache WHERE url = ?`,
		&sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (s *SQLiteCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
