package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword, demo hesaplarının ortak şifresi. Login ekranında gösterilir.
const DemoPassword = "password123"

type demoAccount struct {
	name    string
	email   string
	premium bool
	profile models.Profile
}

func demoAccounts() []demoAccount {
	intPtr := func(v int) *int { return &v }
	floatPtr := func(v float64) *float64 { return &v }

	return []demoAccount{
		{
			name:  "Free User",
			email: "free@test.com",
			profile: models.Profile{
				Age:           intPtr(28),
				Gender:        "male",
				Height:        floatPtr(175),
				Weight:        floatPtr(80),
				TargetWeight:  floatPtr(75),
				ActivityLevel: "moderate",
				Goal:          "lose_weight",
			},
		},
		{
			name:    "Premium User",
			email:   "premium@test.com",
			premium: true,
			profile: models.Profile{
				Age:                 intPtr(32),
				Gender:              "female",
				Height:              floatPtr(165),
				Weight:              floatPtr(65),
				TargetWeight:        floatPtr(60),
				ActivityLevel:       "active",
				Goal:                "lose_weight",
				Allergies:           []string{"nuts"},
				DietaryRestrictions: []string{"gluten-free"},
				CuisinePreferences:  []string{"Mediterranean", "Asian"},
				Budget:              "moderate",
				Region:              "North America",
			},
		},
	}
}

// SeedDemoAccounts, demo hesapları yoksa oluşturur ve oluşturulan sayıyı döner.
// Mevcut hesaplara dokunulmaz; tekrar çağırmak güvenlidir.
func SeedDemoAccounts(ctx context.Context, userRepo repository.UserRepository) (int, error) {
	created := 0
	for _, acc := range demoAccounts() {
		_, err := userRepo.GetByEmail(ctx, acc.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, pkg.ErrNotFound) {
			return created, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), defaultBcryptCost)
		if err != nil {
			return created, fmt.Errorf("failed to hash demo password: %w", err)
		}

		now := time.Now().UTC()
		user := &models.User{
			ID:           uuid.New().String(),
			Name:         acc.name,
			Email:        acc.email,
			PasswordHash: string(hash),
			IsPremium:    acc.premium,
			Profile:      acc.profile,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, pkg.ErrAlreadyExists) {
				continue
			}
			return created, err
		}
		created++
	}

	if created > 0 {
		log.Printf("[seed] created %d demo account(s) (password: %s)", created, DemoPassword)
	}
	return created, nil
}
