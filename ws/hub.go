package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının event göndermek için kullandığı interface.
// Service'ler Hub'ın concrete struct'ına değil buna bağımlıdır; testlerde
// kayıt tutan bir stub kullanılır.
type EventPublisher interface {
	BroadcastToUser(userID string, event Event)
	BroadcastToUsers(userIDs []string, event Event)
	IsOnline(userID string) bool
}

// Hub, tüm WebSocket bağlantılarını yönetir.
//
// Run() goroutine'i register/unregister channel'larından okur; broadcast'ler
// RLock altında doğrudan client send buffer'larına yazar.
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla tab'ı olabilir)
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once

	seq atomic.Int64

	// Callback'ler main'de bağlanır (init_callbacks.go). Hub servisleri
	// bilmez; presence ve typing yönlendirmesi bu fonksiyonlarla yapılır.
	onUserFirstConnect      func(userID string)
	onUserFullyDisconnected func(userID string)
	onTyping                func(userID string, data TypingData)
	readyProvider           func(userID string) any
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

// OnUserFirstConnect, kullanıcının ilk bağlantısı açıldığında çağrılır.
func (h *Hub) OnUserFirstConnect(fn func(userID string)) { h.onUserFirstConnect = fn }

// OnUserFullyDisconnected, kullanıcının son bağlantısı kapandığında çağrılır.
func (h *Hub) OnUserFullyDisconnected(fn func(userID string)) { h.onUserFullyDisconnected = fn }

// OnTyping, client typing event'i gönderdiğinde çağrılır.
func (h *Hub) OnTyping(fn func(userID string, data TypingData)) { h.onTyping = fn }

// SetReadyProvider, ready event payload'ını üreten fonksiyonu ayarlar.
func (h *Hub) SetReadyProvider(fn func(userID string) any) { h.readyProvider = fn }

// Run, Hub'ın ana event loop'u. main'de `go hub.Run()` ile başlatılır,
// Shutdown çağrılınca döner.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.quit:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	first := false
	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
		first = true
	}
	h.clients[client.userID][client] = true
	total := len(h.clients[client.userID])
	h.mu.Unlock()

	log.Printf("[ws] client connected: user=%s (total connections for user: %d)", client.userID, total)

	// Callback'ler mutex dışında ve ayrı goroutine'de: callback içinden
	// broadcast yapılınca deadlock olmaz.
	if first && h.onUserFirstConnect != nil {
		go h.onUserFirstConnect(client.userID)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	last := false
	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.closeSend()

			if len(clients) == 0 {
				delete(h.clients, client.userID)
				last = true
			}
		}
	}
	h.mu.Unlock()

	if last {
		log.Printf("[ws] user fully disconnected: %s", client.userID)
		if h.onUserFullyDisconnected != nil {
			go h.onUserFullyDisconnected(client.userID)
		}
	}
}

// BroadcastToUser, kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	h.BroadcastToUsers([]string{userID}, event)
}

// BroadcastToUsers, verilen kullanıcıların tüm bağlantılarına event gönderir.
// Tekrarlanan ID'ler tek sefer sayılır.
func (h *Hub) BroadcastToUsers(userIDs []string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal %s event: %v", event.Op, err)
		return
	}

	seen := make(map[string]bool, len(userIDs))

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		for client := range h.clients[userID] {
			select {
			case client.send <- data:
			default:
				// Buffer dolu: bu client yavaş, kapat
				go h.drop(client)
			}
		}
	}
}

// drop, client'ı unregister eder; Hub kapanmışsa bekleme yapmaz.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// IsOnline, kullanıcının en az bir açık bağlantısı var mı.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// GetOnlineUserIDs, bağlı tüm kullanıcı ID'leri.
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// Shutdown, tüm client bağlantılarını kapatır ve Run'ı durdurur.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.quit)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, clients := range h.clients {
			for client := range clients {
				client.closeSend()
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		log.Println("[ws] hub shut down, all connections closed")
	})
}
