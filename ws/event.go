// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
//   - Hub: tüm bağlantıları yöneten merkezi yapı
//   - Client: her WebSocket bağlantısı
//   - Event: client-server arası mesaj formatı
//
// Event akışı: HTTP isteği → Service → DB kayıt → Service, EventPublisher
// üzerinden ilgili kullanıcılara event gönderir → her client'ın WritePump'ı
// event'i WebSocket'e yazar.
package ws

// Event, WebSocket üzerinden iletilen mesaj.
//
// Seq her outbound event'te artar; frontend kaçan event'i bu sayaçla fark eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir
	OpTyping    = "typing"    // { user_id } DM için, { group_id } grup için
)

// Server → Client operasyonları
const (
	OpReady        = "ready"
	OpHeartbeatAck = "heartbeat_ack"
	OpPresence     = "presence_update" // arkadaşlara: çevrimiçi/çevrimdışı

	OpFriendRequestCreate  = "friend_request_create"  // alıcıya
	OpFriendRequestAccept  = "friend_request_accept"  // gönderene
	OpFriendRequestDecline = "friend_request_decline" // gönderene
	OpFriendRemove         = "friend_remove"          // çıkarılan tarafa

	OpDMMessageCreate = "dm_message_create" // iki tarafa
	OpDMMessagesRead  = "dm_messages_read"  // mesajların göndericisine
	OpDMTypingStart   = "dm_typing_start"

	OpGroupCreate        = "group_create"
	OpGroupMessageCreate = "group_message_create"
	OpGroupMemberJoin    = "group_member_join"
	OpGroupMemberLeave   = "group_member_leave"
	OpGroupTypingStart   = "group_typing_start"

	OpPostCreate         = "post_create"
	OpPostDelete         = "post_delete"
	OpPostLikeUpdate     = "post_like_update"
	OpPostCommentsUpdate = "post_comments_update"
)

// TypingData, client'tan gelen typing payload'ı. Alanlardan biri dolu olmalı.
type TypingData struct {
	UserID  string `json:"user_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

// TypingStartData, typing_start event'lerinin payload'ı.
type TypingStartData struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id,omitempty"`
}

// PresenceData, presence_update payload'ı.
type PresenceData struct {
	UserID string `json:"user_id"`
	Status string `json:"status"` // "online" | "offline"
}

// ReadyData, bağlantı kurulunca gönderilen ilk event.
type ReadyData struct {
	UserID          string   `json:"user_id"`
	OnlineFriendIDs []string `json:"online_friend_ids"`
}
