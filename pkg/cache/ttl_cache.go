// Package cache: string anahtarlı, generic, in-memory TTL cache.
//
// Her kayıt bir son kullanma zamanı taşır; süresi dolan kayıt okunmaz ve
// arka plandaki temizleme goroutine'i tarafından map'ten silinir.
//
// GetOrLoad, cache miss durumunda loader'ı çağırır. Aynı anahtar için
// eşzamanlı miss'ler singleflight ile tek bir yüklemeye indirgenir, böylece
// popüler bir kullanıcının arkadaş listesi için aynı anda N sorgu atılmaz.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, thread-safe TTL cache.
//
//	friends := cache.New[[]string](time.Minute, 5*time.Minute)
//	ids, err := friends.GetOrLoad(userID, func() ([]string, error) { ... })
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration

	// version, her invalidation'da artar. Invalidation'dan önce başlamış bir
	// yükleme bittiğinde sonucunu cache'e yazmaz.
	version uint64

	loads singleflight.Group

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// New, yeni bir cache oluşturur ve periyodik temizliği başlatır.
func New[V any](ttl, cleanupInterval time.Duration) *TTLCache[V] {
	c := &TTLCache[V]{
		entries:     make(map[string]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, süresi dolmamış bir kayıt varsa (value, true) döner.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, kaydı TTL ile yazar.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// GetOrLoad, cache hit'te değeri döner; miss'te load'u çağırır ve sonucu
// cache'e yazar. load hatası cache'lenmez.
func (c *TTLCache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.loads.Do(key, func() (any, error) {
		c.mu.RLock()
		startVersion := c.version
		c.mu.RUnlock()

		value, err := load()
		if err != nil {
			return value, err
		}

		c.mu.Lock()
		if c.version == startVersion {
			c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
		}
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Delete, anahtarı invalidate eder. Devam eden yüklemeler bu anahtara
// artık yazamaz, sonraki GetOrLoad taze bir yükleme başlatır.
func (c *TTLCache[V]) Delete(keys ...string) {
	c.mu.Lock()
	c.version++
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.loads.Forget(key)
	}
}

// Clear, tüm cache'i boşaltır.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.entries = make(map[string]entry[V])
}

// Len, süresi dolmuşlar dahil kayıt sayısı.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, temizleme goroutine'ini durdurur.
func (c *TTLCache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}

func (c *TTLCache[V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
