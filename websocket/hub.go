package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"go.uber.org/zap"
)

const EventCertificateReady = "certificate.ready"

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

type Event struct {
	Type          string `json:"type"`
	CertificateID string `json:"certificate_id"`
	CourseName    string `json:"course_name"`
	URL           string `json:"url"`
}

type delivery struct {
	userID uuid.UUID
	event  Event
}

// Hub tracks one live connection per student and pushes certificate events
// to them. Register, Unregister and deliveries are serialized through Run.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan delivery
	done       chan struct{}

	mu      sync.RWMutex
	clients map[uuid.UUID]Conn
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan delivery, 64),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]Conn),
		logger:     logger.With(zap.String("service", "websocket_hub")),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.UserID]; ok && old != client.Conn {
				_ = old.Close()
			}
			h.clients[client.UserID] = client.Conn
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("user_id", client.UserID.String()))
		case client := <-h.unregister:
			h.mu.Lock()
			if conn, ok := h.clients[client.UserID]; ok && conn == client.Conn {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("user_id", client.UserID.String()))
		case d := <-h.events:
			h.deliver(d)
		}
	}
}

func (h *Hub) deliver(d delivery) {
	h.mu.RLock()
	conn, ok := h.clients[d.userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := conn.WriteJSON(d.event); err != nil {
		h.logger.Warn("error sending event to client", zap.String("user_id", d.userID.String()), zap.Error(err))
		_ = conn.Close()
		h.mu.Lock()
		if h.clients[d.userID] == conn {
			delete(h.clients, d.userID)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// CertificateIssued queues a push to the student. Events are dropped when the
// queue is full; the student still gets the email.
func (h *Hub) CertificateIssued(ctx context.Context, cert models.CertificateProjection, url string) {
	d := delivery{
		userID: cert.StudentID,
		event: Event{
			Type:          EventCertificateReady,
			CertificateID: cert.CertificateID.String(),
			CourseName:    cert.CourseName,
			URL:           url,
		},
	}
	select {
	case h.events <- d:
	default:
		h.logger.Warn("event queue full, dropping certificate event", zap.String("user_id", cert.StudentID.String()))
	}
}
