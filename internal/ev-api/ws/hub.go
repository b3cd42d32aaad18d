package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub gerencia conexões WebSocket e assinaturas de canais de picks
// subs: mapeia canal lógico para o conjunto de clientes inscritos
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	subs map[string]map[*client]struct{}

	OnConnect    func() // métricas (gauge++)
	OnDisconnect func() // métricas (gauge--)
	OnBroadcast  func() // métricas: mensagem entregue a um cliente
}

// client é uma conexão identificada; o id só serve para log.
type client struct {
	id   string
	conn *websocket.Conn

	// A lib permite um único writer por conexão; o pong do loop de
	// leitura e o Broadcast compartilham este lock.
	mu sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) writeText(deadline time.Time, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(deadline)
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe em canais e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	if h.OnConnect != nil {
		h.OnConnect()
	}
	h.log.Info("ws client connected", zap.String("client_id", c.id))

	defer func() {
		h.removeEverywhere(c)
		_ = conn.Close()
		if h.OnDisconnect != nil {
			h.OnDisconnect()
		}
		h.log.Info("ws client disconnected", zap.String("client_id", c.id))
	}()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "subscribe":
			h.subscribe(c, msg.Channel)
		case "unsubscribe":
			h.unsubscribe(c, msg.Channel)
		case "ping":
			_ = c.writeJSON(map[string]string{"type": "pong"})
		}
	}
}

func (h *Hub) subscribe(c *client, channel string) {
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[channel]; !ok {
		h.subs[channel] = make(map[*client]struct{})
	}
	h.subs[channel][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[channel]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, channel)
		}
	}
}

// removeEverywhere tira o cliente de todas as assinaturas ao desconectar
func (h *Hub) removeEverywhere(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, channel)
		}
	}
}

// Broadcast envia o payload para todos os clientes inscritos no canal.
// Cliente lento ou com erro de escrita é fechado; a remoção acontece
// quando o loop de leitura dele encerra.
func (h *Hub) Broadcast(channel string, v any) {
	h.mu.RLock()
	set := h.subs[channel]
	clients := make([]*client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		h.log.Warn("ws broadcast marshal failed", zap.Error(err))
		return
	}

	for _, c := range clients {
		if err := c.writeText(time.Now().Add(2*time.Second), b); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", c.id), zap.Error(err))
			_ = c.conn.Close()
			continue
		}
		if h.OnBroadcast != nil {
			h.OnBroadcast()
		}
	}
}
