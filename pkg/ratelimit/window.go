// Package ratelimit, bellek içi (in-memory) istek sınırlayıcıları barındırır.
//
// İki tür limiter vardır:
//   - WindowLimiter: sabit pencere + opsiyonel ceza süresi. Login (IP bazlı),
//     mesaj ve gönderi (kullanıcı bazlı) spam koruması için kullanılır.
//   - IPLimiter: golang.org/x/time/rate token bucket'ı ile global API limiti.
//
// Paket hiçbir proje içi pakete bağımlı değildir (leaf dependency), böylece
// handlers ve middleware arasında import cycle oluşmaz.
package ratelimit

import (
	"sync"
	"time"
)

type windowBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time // zero value = ceza yok
}

// WindowLimiter, anahtar (IP veya userID) başına sabit pencere sayacıdır.
//
// Pencere içinde max istek geçer. Limit aşıldığında:
//   - cooldown > 0 ise anahtar cooldown süresince tamamen bloklanır,
//   - cooldown == 0 ise pencerenin kalanı kadar beklenir.
type WindowLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*windowBucket
	max      int
	window   time.Duration
	cooldown time.Duration
	now      func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewWindowLimiter, yeni bir limiter oluşturur ve arka plan temizliğini başlatır.
//
//	login := NewWindowLimiter(5, 2*time.Minute, 0)
//	messages := NewWindowLimiter(5, 5*time.Second, 15*time.Second)
func NewWindowLimiter(max int, window, cooldown time.Duration) *WindowLimiter {
	l := &WindowLimiter{
		buckets:     make(map[string]*windowBucket),
		max:         max,
		window:      window,
		cooldown:    cooldown,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupLoop(cleanupInterval(window + cooldown))

	return l
}

// Allow, anahtarın bir istek daha yapıp yapamayacağını döner ve sayacı artırır.
func (l *WindowLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &windowBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		// Ceza bitti: temiz sayfa
		b.count = 1
		b.windowStart = now
		b.cooldownUntil = time.Time{}
		return true
	}

	if now.Sub(b.windowStart) > l.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count <= l.max {
		return true
	}

	if l.cooldown > 0 {
		b.cooldownUntil = now.Add(l.cooldown)
	}
	return false
}

// Reset, anahtarın sayacını siler (ör: başarılı login sonrası).
func (l *WindowLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// RetryAfterSeconds, Retry-After header'ı için kalan bekleme süresini döner.
// Bekleme yoksa 0.
func (l *WindowLimiter) RetryAfterSeconds(key string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return 0
	}

	var remaining time.Duration
	switch {
	case !b.cooldownUntil.IsZero():
		remaining = b.cooldownUntil.Sub(now)
	case b.count > l.max:
		remaining = l.window - now.Sub(b.windowStart)
	}

	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (l *WindowLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

func (l *WindowLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

// cleanup, hem penceresi hem cezası bitmiş bucket'ları siler.
func (l *WindowLimiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		windowExpired := now.Sub(b.windowStart) > l.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)
		if windowExpired && cooldownExpired {
			delete(l.buckets, key)
		}
	}
}

func cleanupInterval(span time.Duration) time.Duration {
	if span < 30*time.Second {
		return 30 * time.Second
	}
	if span > 5*time.Minute {
		return 5 * time.Minute
	}
	return span
}
