package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter, tüm API için IP bazlı token bucket limiter'ı.
//
// 200 istek / 15 dakika gibi bir bütçe, rate.Limiter'a
// "her window/max sürede bir token, burst = max" olarak çevrilir.
// Uzun süre görülmeyen IP'lerin limiter'ları periyodik olarak atılır.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter, window başına max istek izni veren bir limiter oluşturur.
func NewIPLimiter(max int, window time.Duration) *IPLimiter {
	if max < 1 {
		max = 1
	}
	l := &IPLimiter{
		visitors:    make(map[string]*visitor),
		limit:       rate.Every(window / time.Duration(max)),
		burst:       max,
		idle:        window,
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Allow, IP için bir token tüketmeye çalışır.
func (l *IPLimiter) Allow(ip string) bool {
	return l.get(ip).Allow()
}

// RetryAfterSeconds, bir sonraki token'a kadar kalan süre (yukarı yuvarlanmış).
func (l *IPLimiter) RetryAfterSeconds(ip string) int {
	r := l.get(ip).Reserve()
	defer r.Cancel()

	delay := r.Delay()
	if delay <= 0 {
		return 0
	}
	return int(delay.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur.
func (l *IPLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

func (l *IPLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *IPLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for ip, v := range l.visitors {
				if time.Since(v.lastSeen) > l.idle {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		case <-l.stopCleanup:
			return
		}
	}
}

// ExtractIP, client IP adresini çıkarır.
// Öncelik: X-Forwarded-For (ilk değer) → X-Real-IP → RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, saniyeyi okunabilir hale getirir: 120 → "2 minute(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
