package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akinalp/healthy/pkg"
)

// MaxMessageLength, DM ve grup mesajları için karakter (rune) sınırı.
const MaxMessageLength = 1000

// DefaultThreadLimit, thread fetch'lerinde limit verilmezse kullanılan değer.
const DefaultThreadLimit = 100

// Message, bir DM ya da grup mesajı. RecipientID ve GroupID'den tam olarak
// biri doludur (DB'de CHECK constraint ile garanti).
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	RecipientID *string   `json:"recipient_id"`
	GroupID     *string   `json:"group_id"`
	Text        string    `json:"text"`
	ReadBy      []string  `json:"read_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsDirect, mesajın DM olup olmadığını döner.
func (m *Message) IsDirect() bool {
	return m.RecipientID != nil
}

// Conversation, DM konuşma listesindeki bir satır.
type Conversation struct {
	User        PublicUser `json:"user"`
	LastMessage *Message   `json:"last_message"`
	UnreadCount int        `json:"unread_count"`
}

// SendMessageRequest, DM ve grup mesajı gönderme isteği.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Validate, metni trim'ler; boş veya 1000 karakterden uzun metin geçersizdir.
func (r *SendMessageRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	n := utf8.RuneCountInString(r.Text)
	if n == 0 {
		return fmt.Errorf("%w: message text is required", pkg.ErrBadRequest)
	}
	if n > MaxMessageLength {
		return fmt.Errorf("%w: message must be at most %d characters", pkg.ErrBadRequest, MaxMessageLength)
	}
	return nil
}

// ReadReceipt, dm_messages_read event payload'ı.
type ReadReceipt struct {
	ReaderID   string   `json:"reader_id"`
	MessageIDs []string `json:"message_ids"`
}
