package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/querocurso/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	writes chan interface{}
	err    error
	closed chan struct{}
}

func connected(h *Hub, userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func newFakeConn() *fakeConn {
	return &fakeConn{writes: make(chan interface{}, 4), closed: make(chan struct{}, 1)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.writes <- v
	return nil
}

func (c *fakeConn) Close() error {
	select {
	case c.closed <- struct{}{}:
	default:
	}
	return nil
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zap.NewNop())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func TestHubPushesCertificateEventToStudent(t *testing.T) {
	h := startHub(t)
	student := uuid.New()
	conn := newFakeConn()
	h.Register(&Client{UserID: student, Conn: conn})

	certID := uuid.New()
	h.CertificateIssued(context.Background(), models.CertificateProjection{
		CertificateID: certID,
		StudentID:     student,
		CourseName:    "Gestão Escolar",
	}, "https://files.test/cert.pdf")

	select {
	case got := <-conn.writes:
		assert.Equal(t, Event{
			Type:          EventCertificateReady,
			CertificateID: certID.String(),
			CourseName:    "Gestão Escolar",
			URL:           "https://files.test/cert.pdf",
		}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestHubIgnoresOfflineStudents(t *testing.T) {
	h := startHub(t)
	conn := newFakeConn()
	h.Register(&Client{UserID: uuid.New(), Conn: conn})

	h.CertificateIssued(context.Background(), models.CertificateProjection{StudentID: uuid.New()}, "url")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, conn.writes)
}

func TestHubDropsConnectionOnWriteError(t *testing.T) {
	h := startHub(t)
	student := uuid.New()
	conn := newFakeConn()
	conn.err = errors.New("broken pipe")
	h.Register(&Client{UserID: student, Conn: conn})
	require.Eventually(t, func() bool { return connected(h, student) }, time.Second, 10*time.Millisecond)

	h.CertificateIssued(context.Background(), models.CertificateProjection{StudentID: student}, "url")

	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed")
	}
	assert.Eventually(t, func() bool { return !connected(h, student) }, time.Second, 10*time.Millisecond)
}

func TestHubReplacesStaleConnection(t *testing.T) {
	h := startHub(t)
	student := uuid.New()
	first, second := newFakeConn(), newFakeConn()
	h.Register(&Client{UserID: student, Conn: first})
	h.Register(&Client{UserID: student, Conn: second})

	select {
	case <-first.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("stale connection was not closed")
	}

	// Unregistering the stale connection must not drop the live one.
	h.Unregister(&Client{UserID: student, Conn: first})
	h.Register(&Client{UserID: uuid.New(), Conn: newFakeConn()})
	assert.True(t, connected(h, student))
}
