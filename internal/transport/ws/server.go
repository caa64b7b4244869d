package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"skyharbor.ai/internal/protocol"
)

// Server streams engine events to observer clients. Purely best-effort:
// slow clients get events dropped, dead clients get removed, and nothing
// here can fail the sim loop.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: map[*websocket.Conn]chan []byte{},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}

		out := make(chan []byte, 256)
		s.mu.Lock()
		s.clients[conn] = out
		s.mu.Unlock()

		hello, _ := json.Marshal(protocol.Event{
			"type":             "HELLO",
			"protocol_version": protocol.Version,
		})
		sendLatest(out, hello)

		// Writer goroutine.
		go func() {
			for b := range out {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					s.drop(conn)
					return
				}
			}
			_ = conn.Close()
		}()

		// Reader loop only detects disconnects; observers never send.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.drop(conn)
	}
}

// Broadcast fans events out to every connected observer. Sends happen under
// the client lock; sendLatest never blocks, and drop closes channels under
// the same lock, so a send can never hit a closed channel.
func (s *Server) Broadcast(events []protocol.Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) == 0 {
		return
	}
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		for _, out := range s.clients {
			sendLatest(out, b)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if out, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		close(out)
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// sendLatest drops one queued message to make room when the client lags.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
