package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations, gömülü migration dosyalarını kök dizinde sunan fs.FS döner.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// Sadece pattern yanlışsa olur: derleme zamanında sabit
		panic(err)
	}
	return sub
}
