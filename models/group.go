package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akinalp/healthy/pkg"
)

// DefaultGroupEmoji, emoji verilmezse kullanılan etiket.
const DefaultGroupEmoji = "💪"

// Group, grup sohbeti. Members katılım sırasına göre döner.
type Group struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Emoji       string       `json:"emoji"`
	CreatorID   string       `json:"creator_id"`
	Members     []PublicUser `json:"members"`
	AdminIDs    []string     `json:"admin_ids"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasMember, userID'nin grup üyesi olup olmadığını döner.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// MemberIDs, üye ID'lerini sırayla döner.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// GroupThread, grup mesajları fetch yanıtı.
type GroupThread struct {
	Group    *Group    `json:"group"`
	Messages []Message `json:"messages"`
}

// CreateGroupRequest, grup oluşturma isteği.
// MemberIDs service katmanında oluşturanın arkadaşlarına göre filtrelenir.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Emoji       string   `json:"emoji"`
	MemberIDs   []string `json:"member_ids"`
}

// Validate, isim/açıklama sınırlarını kontrol eder ve emoji default'unu uygular.
func (r *CreateGroupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: group name is required", pkg.ErrBadRequest)
	}
	if utf8.RuneCountInString(r.Name) > 80 {
		return fmt.Errorf("%w: group name must be at most 80 characters", pkg.ErrBadRequest)
	}

	r.Description = strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(r.Description) > 200 {
		return fmt.Errorf("%w: description must be at most 200 characters", pkg.ErrBadRequest)
	}

	r.Emoji = strings.TrimSpace(r.Emoji)
	if r.Emoji == "" {
		r.Emoji = DefaultGroupEmoji
	}
	return nil
}
