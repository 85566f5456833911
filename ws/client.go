package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: bir mesajı yazmak için maksimum süre.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3 = 90s. Bu sürede heartbeat
	// gelmezse bağlantı kopmuş sayılır.
	pongWait = 90 * time.Second

	maxMessageSize = 4096

	// sendBufferSize dolarsa client yavaş kabul edilip düşürülür.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine çalışır: ReadPump client'tan okur,
// WritePump send channel'ından WebSocket'e yazar. gorilla/websocket aynı
// anda tek okuyucu ve tek yazıcı destekler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	mu     sync.Mutex // conn.WriteMessage çağrılarını korur

	// sendMu, send channel'ının kapatılmasını ve ReadPump tarafındaki
	// doğrudan gönderimleri sıraya koyar. closed true ise channel kapalıdır.
	sendMu sync.Mutex
	closed bool
}

// ReadPump, bağlantı kapanana kadar client mesajlarını okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for user %s: %v", c.userID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from user %s: %v", c.userID, err)
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpTyping:
		c.handleTyping(event)

	default:
		log.Printf("[ws] unknown op from user %s: %s", c.userID, event.Op)
	}
}

// handleTyping, typing payload'ını parse edip callback'e iletir.
// Kime gideceği (DM karşı tarafı veya grup üyeleri) callback'te belirlenir.
func (c *Client) handleTyping(event Event) {
	typing, ok := decodeTyping(event.Data)
	if !ok {
		return
	}

	if c.hub.onTyping != nil {
		go c.hub.onTyping(c.userID, typing)
	}
}

// decodeTyping: event.Data `any` olarak gelir; JSON'a çevirip tekrar parse
// etmek en güvenli yol. Tam olarak bir hedef dolu olmalı.
func decodeTyping(raw any) (TypingData, bool) {
	var typing TypingData

	dataBytes, err := json.Marshal(raw)
	if err != nil {
		return typing, false
	}
	if err := json.Unmarshal(dataBytes, &typing); err != nil {
		return typing, false
	}
	if (typing.UserID == "") == (typing.GroupID == "") {
		return typing, false
	}
	return typing, true
}

// sendEvent, yalnızca bu bağlantıya event gönderir. Hub client'ı çıkardıysa
// (send kapalı) event sessizce atlanır.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("[ws] send buffer full for user %s, dropping connection", c.userID)
		go c.hub.drop(c)
	}
}

// closeSend, send channel'ını bir kez kapatır. WritePump bunu görüp bağlantıyı kapatır.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump, send channel'ından gelen mesajları WebSocket'e yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Channel kapandı: Hub client'ı çıkardı
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
