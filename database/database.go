// Package database, SQLite bağlantısını ve migration sistemini yönetir.
//
// Driver olarak modernc.org/sqlite kullanılır (pure-Go, CGO gerekmez).
// Migration'lar binary'ye gömülüdür (embed.go) ve schema_migrations
// tablosu sayesinde her dosya yalnızca bir kez uygulanır.
package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// recoverableErrors, yarım kalmış bir migration tekrar çalıştırıldığında
// güvenle atlanabilecek hata kalıpları.
var recoverableErrors = []string{
	"duplicate column name",
}

// DB, *sql.DB connection pool'unu saran struct.
type DB struct {
	Conn *sql.DB
}

// dsnPragmas, her bağlantıda uygulanan ayarlar:
//   - foreign_keys(1): SQLite'ta varsayılan kapalı; cascade silmeler için şart
//   - journal_mode(WAL): okuyucular yazarı bloklamaz
//   - busy_timeout(5000): kilitli DB'de hemen hata yerine 5sn bekle
//   - _txlock=immediate: BEGIN yazma kilidini baştan alır, böylece eşzamanlı
//     iki transaction read→write yükseltmesinde SQLITE_BUSY ile düşmez
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"

// New, SQLite bağlantısını açar ve migration'ları çalıştırır.
//
// dbPath: dosya yolu (ör: "./data/healthy.db")
// migrationsFS: kökünde *.sql dosyaları bulunan fs.FS (bkz. Migrations)
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.runMigrations(migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("[database] connected (%s) and migrations applied", dbPath)
	return db, nil
}

// Close, bağlantı havuzunu kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations, henüz uygulanmamış .sql dosyalarını isim sırasıyla çalıştırır
// (001_init.sql, 002_friends.sql, ...).
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	files, err := migrationFiles(migrationsFS)
	if err != nil {
		return err
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	for _, file := range files {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := db.execStatements(file, string(content)); err != nil {
			return err
		}

		if _, err := db.Conn.Exec(
			"INSERT INTO schema_migrations (filename) VALUES (?)", file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		log.Printf("[database] migration applied: %s", file)
	}

	return nil
}

func migrationFiles(migrationsFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// execStatements, migration'ı statement statement çalıştırır; recoverable
// hatalar loglanıp atlanır.
func (db *DB) execStatements(filename, content string) error {
	for i, stmt := range splitStatements(content) {
		if _, err := db.Conn.Exec(stmt); err != nil {
			if isRecoverable(err) {
				log.Printf("[database] %s: statement %d skipped (recoverable: %v)", filename, i+1, err)
				continue
			}
			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}
	return nil
}

func isRecoverable(err error) bool {
	msg := err.Error()
	for _, pattern := range recoverableErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// splitStatements, SQL metnini ';' karakterinden böler. Tek tırnaklı string
// literal'lerin ve "--" satır yorumlarının içindeki ';' yok sayılır.
func splitStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	inComment := false

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if inComment {
			if ch == '\n' {
				inComment = false
				current.WriteByte(ch)
			}
			continue
		}

		if !inString && ch == '-' && i+1 < len(sql) && sql[i+1] == '-' {
			inComment = true
			i++
			continue
		}

		if ch == '\'' {
			// '' → literal içinde kaçış
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteString("''")
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			flush()
			continue
		}

		current.WriteByte(ch)
	}
	flush()

	return statements
}
