// Package console keeps the per-session engine state: one listing controller
// per entity per session, plus the session's alert queue. Sessions are keyed
// by the relayed backend session cookie and evicted after an idle period.
package console

import (
	"context"
	"sync"
	"time"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/listing"
	"dealer-admin-console/internal/model"
	"dealer-admin-console/internal/notify"
)

type Session struct {
	token    string
	alerts   *notify.Queue
	mu       sync.Mutex
	listings map[string]*listing.Controller
	lastSeen time.Time
	stop     context.CancelFunc
}

func (s *Session) Alerts() *notify.Queue {
	return s.alerts
}

// Listing returns the session's controller for an entity, creating and
// starting it on first use.
func (s *Session) Listing(name string, client *backend.Client, pageSize int) (*listing.Controller, error) {
	desc, ok := entity.Get(name)
	if !ok {
		return nil, model.ErrUnknownEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if controller, exists := s.listings[name]; exists {
		return controller, nil
	}

	controller := listing.NewController(desc, client, s.alerts, s.token, pageSize)
	controller.Start()
	s.listings[name] = controller
	return controller, nil
}

type Manager struct {
	mu             sync.Mutex
	client         *backend.Client
	pageSize       int
	alertCapacity  int
	alertTTL       time.Duration
	idleTTL        time.Duration
	sessions       map[string]*Session
}

func NewManager(client *backend.Client, pageSize int, alertCapacity int, alertTTL time.Duration, idleTTL time.Duration) *Manager {
	return &Manager{
		client:        client,
		pageSize:      pageSize,
		alertCapacity: alertCapacity,
		alertTTL:      alertTTL,
		idleTTL:       idleTTL,
		sessions:      map[string]*Session{},
	}
}

func (m *Manager) Client() *backend.Client {
	return m.client
}

func (m *Manager) PageSize() int {
	return m.pageSize
}

// Session returns the state bucket for a session token, creating it lazily
// and refreshing its idle deadline.
func (m *Manager) Session(token string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[token]
	if !exists {
		ctx, cancel := context.WithCancel(context.Background())
		session = &Session{
			token:    token,
			alerts:   notify.NewQueue(m.alertCapacity, m.alertTTL),
			listings: map[string]*listing.Controller{},
			stop:     cancel,
		}
		go session.alerts.StartSweeper(ctx, 500*time.Millisecond)
		m.sessions[token] = session
	}
	session.lastSeen = time.Now()
	return session
}

// StartCleanup evicts idle sessions on a fixed interval until ctx ends.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleTTL)
	for token, session := range m.sessions {
		if session.lastSeen.Before(cutoff) {
			session.stop()
			delete(m.sessions, token)
		}
	}
}
