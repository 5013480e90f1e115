package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Message — кадр, отправляемый зрителям очереди.
type Message struct {
	EventType string      `json:"type"`
	Data      interface{} `json:"data"`
}

// Hub — реестр подписчиков очереди с операциями регистрации, удаления
// и рассылки. Создаётся один раз и передаётся по ссылке компонентам,
// которым нужно инициировать рассылку.
type Hub struct {
	// Множество активных подключений зрителей.
	clients map[*Client]bool
	// Канал для регистрации нового клиента.
	register chan *Client
	// Канал для удаления клиента.
	unregister chan *Client
	// Канал для рассылки сообщений всем зрителям.
	broadcast chan []byte
	// Mutex для защиты карты клиентов.
	mu sync.RWMutex
}

// NewHub создает новый Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run запускает цикл обработки каналов хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Зритель не успевает читать — отключаем без повторов.
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast отправляет сообщение всем подписанным зрителям.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// Client представляет одно подключение через WebSocket.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// readPump читает сообщения из WebSocket-соединения.
// Клиентского протокола нет — просто отслеживаем разрыв соединения.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump отправляет сообщения клиенту из канала Send.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Канал закрыт.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			// Отправка ping-сообщения для поддержания соединения.
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Настраиваем апгрейдер для WebSocket с разрешением всех источников.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS обновляет соединение до WebSocket и регистрирует зрителя в хабе.
// Новому зрителю сразу отправляется текущий снимок очереди, чтобы
// подключившийся позже не оставался с пустым экраном.
func ServeWS(hub *Hub, snapshot func() ([]byte, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			http.Error(c.Writer, "Ошибка обновления до WebSocket", http.StatusInternalServerError)
			return
		}
		client := &Client{
			Hub:  hub,
			Conn: conn,
			Send: make(chan []byte, 256),
		}
		hub.register <- client

		if payload, err := snapshot(); err != nil {
			log.Println("Ошибка отправки начального снимка очереди:", err)
		} else {
			client.Send <- payload
		}

		go client.writePump()
		client.readPump()
	}
}
