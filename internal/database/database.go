package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// New opens the sqlite database at dsn and verifies the connection.
func New(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" is a fresh database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s: %w", dsn, err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- Projects own at most one wiki.
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    identifier TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    is_public BOOLEAN NOT NULL DEFAULT 0
);

-- Users sign in through identities and are granted permissions via members.
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    login TEXT UNIQUE NOT NULL,
    display_name TEXT NOT NULL,
    admin BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS identities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    provider TEXT NOT NULL,
    provider_user_id TEXT NOT NULL,
    password_hash TEXT,
    FOREIGN KEY(user_id) REFERENCES users(id),
    UNIQUE (provider, provider_user_id)
);

CREATE TABLE IF NOT EXISTS members (
    project_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    permissions TEXT NOT NULL DEFAULT '',
    FOREIGN KEY(project_id) REFERENCES projects(id),
    FOREIGN KEY(user_id) REFERENCES users(id),
    PRIMARY KEY (project_id, user_id)
);

-- One wiki per project.
CREATE TABLE IF NOT EXISTS wikis (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER UNIQUE NOT NULL,
    start_page TEXT NOT NULL DEFAULT '',
    FOREIGN KEY(project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS wiki_pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    wiki_id INTEGER NOT NULL,
    parent_id INTEGER,
    title TEXT NOT NULL,
    created_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(wiki_id) REFERENCES wikis(id),
    FOREIGN KEY(parent_id) REFERENCES wiki_pages(id)
);

CREATE INDEX IF NOT EXISTS index_wiki_pages_on_wiki_id ON wiki_pages (wiki_id);

-- The current text of a page; a page may have none.
CREATE TABLE IF NOT EXISTS wiki_contents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER UNIQUE NOT NULL,
    text TEXT NOT NULL,
    author_id INTEGER NOT NULL,
    comments TEXT,
    updated_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(page_id) REFERENCES wiki_pages(id)
);

CREATE TABLE IF NOT EXISTS wiki_redirects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    wiki_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    redirects_to TEXT NOT NULL,
    redirects_to_wiki_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS index_wiki_redirects_on_wiki_id ON wiki_redirects (wiki_id);
CREATE INDEX IF NOT EXISTS index_wiki_redirects_on_redirects_to_wiki_id ON wiki_redirects (redirects_to_wiki_id);
`)
	return err
}
