package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isUniqueViolation, hatanın UNIQUE/PRIMARY KEY constraint ihlali olup
// olmadığını döner. Driver hata kodu yoksa mesaja bakılır.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation, hatanın FOREIGN KEY constraint ihlali olup olmadığını
// döner. Üst kayıt (ör: gönderi) bu arada silindiyse insert bu hatayla düşer.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// inClause, n elemanlı "IN (?, ?, ...)" placeholder listesi üretir.
func inClause(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

// stringArgs, []string'i variadic sorgu argümanlarına çevirir.
func stringArgs(prefix []any, ids []string) []any {
	args := make([]any, 0, len(prefix)+len(ids))
	args = append(args, prefix...)
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

// likePattern, kullanıcı girdisini "%q%" LIKE pattern'ine çevirir.
// %, _ ve \ karakterleri kaçırılır; sorguda ESCAPE '\' kullanılmalıdır.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// timeLayouts, driver'ın time.Time yazarken kullandığı ve okurken kabul
// edilen formatlar.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// scanTime, DATETIME kolonunu time.Time'a okur. Subquery/CTE kolonlarında
// driver declared type'ı göremeyip ham string döndürebilir; ikisi de kabul edilir.
func scanTime(dst *time.Time) sql.Scanner {
	return timeDest{dst: dst}
}

type timeDest struct {
	dst *time.Time
}

func (d timeDest) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.dst = v
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into time.Time", src)
}

func (d timeDest) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d.dst = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", s)
}
