// Package websocket menyiarkan event perubahan data ke semua klien
// yang terhubung supaya tabel di browser bisa refresh sendiri.
package websocket

import (
	"encoding/json"
	"sync"

	"worklog-go/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Event memberi tahu klien koleksi (dan kunci) mana yang berubah.
type Event struct {
	Collection string `json:"collection"`
	Key        string `json:"key,omitempty"`
}

// Hub memegang semua koneksi websocket aktif.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub membuat instance Hub baru.
func NewHub() *Hub {
	return &Hub{clients: map[*websocket.Conn]bool{}}
}

// Register menambahkan koneksi dan memblok sampai klien menutupnya.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Baca terus supaya close frame terdeteksi; isi pesan diabaikan
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify menyiarkan satu event ke semua klien. Koneksi yang gagal
// ditulisi langsung dibuang.
func (h *Hub) Notify(collection, key string) {
	payload, err := json.Marshal(Event{Collection: collection, Key: key})
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.SystemLogger.Warn("Gagal kirim event websocket", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
