// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler "ince" olmalı: body'yi parse et, service'i çağır, sonucu
// pkg.JSON / pkg.Error ile döndür. İş mantığı ve DB erişimi service'tedir.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/ratelimit"
)

// contextKey, context.Value çakışmalarını önleyen özel key tipi.
type contextKey string

// UserContextKey, auth middleware'ın doğrulanmış *models.User'ı koyduğu key.
const UserContextKey contextKey = "user"

// currentUser, context'teki kullanıcıyı döner; yoksa 401 yazar.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return nil, false
	}
	return user, true
}

// decodeBody, JSON body'yi dst'ye çözer; hatalıysa 400 yazar.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryInt, pozitif bir integer query parametresi okur; yoksa veya geçersizse fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// allowOrReject, limiter key için izin vermezse Retry-After ile 429 yazar.
// limiter nil ise her zaman izin verir.
func allowOrReject(w http.ResponseWriter, limiter *ratelimit.WindowLimiter, key, action string) bool {
	if limiter == nil || limiter.Allow(key) {
		return true
	}

	retryAfter := limiter.RetryAfterSeconds(key)
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
		fmt.Sprintf("too many %s, please try again in %s", action, ratelimit.FormatRetryMessage(retryAfter)))
	return false
}
