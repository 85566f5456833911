package services

import (
	"context"
	"time"

	"github.com/akinalp/healthy/pkg/cache"
	"github.com/akinalp/healthy/repository"
)

// friendCache, kullanıcı başına arkadaş ID kümesini kısa süreli tutar.
// DM gönderimi ve feed her istekte bu kümeye bakar.
type friendCache struct {
	repo  repository.FriendshipRepository
	cache *cache.TTLCache[[]string]
}

func newFriendCache(repo repository.FriendshipRepository, ttl time.Duration) *friendCache {
	return &friendCache{
		repo:  repo,
		cache: cache.New[[]string](ttl, 5*time.Minute),
	}
}

// ids, cache miss'te DB'den yükler. Eşzamanlı miss'ler tek sorguya iner.
// Yükleme ilk çağıranın iptalinden bağımsızdır; sonucu bekleyen diğer
// istekler onun context'i iptal edildi diye hata almaz.
func (c *friendCache) ids(ctx context.Context, userID string) ([]string, error) {
	loadCtx := context.WithoutCancel(ctx)
	return c.cache.GetOrLoad(userID, func() ([]string, error) {
		return c.repo.FriendIDs(loadCtx, userID)
	})
}

func (c *friendCache) contains(ctx context.Context, userID, otherID string) (bool, error) {
	ids, err := c.ids(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == otherID {
			return true, nil
		}
	}
	return false, nil
}

// invalidate, arkadaşlık değişen iki tarafın kaydını da siler.
func (c *friendCache) invalidate(userIDs ...string) {
	c.cache.Delete(userIDs...)
}
