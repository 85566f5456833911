// Package models: arkadaşlık isteği modeli.
//
// İstek durumu tek yönlü ilerler:
//   - "pending":  istek gönderildi, cevap bekleniyor
//   - "accepted": kabul edildi, friendships tablosuna çift eklendi
//   - "declined": reddedildi
//
// Arkadaşlığın kendisi istekten bağımsızdır; arkadaşlıktan çıkarmak
// istek geçmişine dokunmaz.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/akinalp/healthy/pkg"
)

// FriendRequestStatus, istek durumu için typed constant.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// FriendRequest, friend_requests tablosunun Go karşılığı.
type FriendRequest struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"sender_id"`
	RecipientID string              `json:"recipient_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FriendRequestWithUser, isteği karşı tarafın bilgisiyle döner.
// Gelen isteklerde User = gönderen, giden isteklerde User = alıcı.
type FriendRequestWithUser struct {
	FriendRequest
	User PublicUser `json:"user"`
}

// Friend, arkadaş listesindeki bir kayıt.
type Friend struct {
	PublicUser
	Since time.Time `json:"since"`
}

// UserSearchResult, arkadaş aramasında dönen kullanıcı.
// IsFriend ve RequestSent arayan kullanıcıya göre hesaplanır.
type UserSearchResult struct {
	PublicUser
	IsFriend    bool `json:"is_friend"`
	RequestSent bool `json:"request_sent"`
}

// SendFriendRequestRequest, arkadaşlık isteği payload'ı.
// Alıcı email ile bulunur: ID frontend'de bilinmeyebilir.
type SendFriendRequestRequest struct {
	Email string `json:"email"`
}

// Validate, email'i normalize eder (trim + lowercase).
func (r *SendFriendRequestRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", pkg.ErrBadRequest)
	}
	return nil
}

// FriendPair, sırasız bir kullanıcı çiftini (low, high) olarak döner.
// friendships tablosu her çifti tek satırda bu sırayla tutar.
func FriendPair(a, b string) (low, high string) {
	if a < b {
		return a, b
	}
	return b, a
}
