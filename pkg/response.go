package pkg

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// APIResponse, tüm API yanıtları için standart format.
// Code alanı hata türünü makine tarafından okunabilir şekilde taşır
// (ör: "not_friends", "duplicate_pending").
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Hata kodları: frontend mesajları bu değerlere göre ayırt eder.
const (
	CodeValidation       = "validation_error"
	CodeSelfRequest      = "self_request"
	CodeNotFound         = "not_found"
	CodeForbidden        = "forbidden"
	CodeNotFriends       = "not_friends"
	CodeConflict         = "conflict"
	CodeAlreadyFriends   = "already_friends"
	CodeDuplicatePending = "duplicate_pending"
	CodeUnauthenticated  = "unauthenticated"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal"
)

// internalMessage, 500 yanıtlarında gösterilen tek mesaj.
// Storage detayları (SQL hataları vb.) client'a sızdırılmaz.
const internalMessage = "internal server error"

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error, hata yanıtı gönderir.
// Domain error'ları errors.Is ile uygun HTTP status ve koda çevrilir.
// Tanınmayan her hata Internal kabul edilir: loglanır, client'a genel mesaj gider.
func Error(w http.ResponseWriter, err error) {
	status, code := Classify(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[http] internal error: %v", err)
		msg = internalMessage
	}

	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
		Code:    code,
	})
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   message,
		Code:    codeForStatus(status),
	})
}

// Classify, bir error'ı (HTTP status, hata kodu) ikilisine çevirir.
// Özel durumlar genel türlerden önce kontrol edilir; ErrNotFriends aynı
// zamanda ErrForbidden olduğu için sıra önemlidir.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSelfRequest):
		return http.StatusBadRequest, CodeSelfRequest
	case errors.Is(err, ErrAlreadyFriends):
		return http.StatusConflict, CodeAlreadyFriends
	case errors.Is(err, ErrDuplicatePending):
		return http.StatusConflict, CodeDuplicatePending
	case errors.Is(err, ErrNotFriends):
		return http.StatusForbidden, CodeNotFriends
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, CodeValidation
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[http] failed to encode response: %v", err)
	}
}
