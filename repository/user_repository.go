// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz, repository interface'leri üzerinden
// çalışır. Her interface'in yanında sqlite_*.go dosyasında private bir
// implementasyon ve NewSQLiteXRepo constructor'ı bulunur. Constructor'lar
// database.TxQuerier alır; aynı repo *sql.DB ile de *sql.Tx ile de kurulabilir.
package repository

import (
	"context"

	"github.com/akinalp/healthy/models"
)

// UserRepository, kimlik dizini işlemleri.
type UserRepository interface {
	// Create, kullanıcıyı ekler. Email zaten varsa pkg.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail, lowercase email ile arar. Bulunamazsa pkg.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetPublicByIDs, verilen ID'lerin herkese açık bilgisini map olarak döner.
	// Olmayan ID'ler sessizce atlanır.
	GetPublicByIDs(ctx context.Context, ids []string) (map[string]models.PublicUser, error)
	// Search, isim veya email'de büyük/küçük harf duyarsız alt dize araması.
	Search(ctx context.Context, query, excludeID string, limit int) ([]models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) error
	UpdateReminders(ctx context.Context, userID string, reminders models.Reminders) error
	SetPremium(ctx context.Context, userID string, premium bool) error
	Count(ctx context.Context) (int, error)
}
