package services

import (
	"sync"
	"time"

	"herbal-site/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Standardwerte für SessionStore.
const (
	DefaultSessionTTL  = 12 * time.Hour
	DefaultMaxSessions = 1000
)

type sessionEntry struct {
	session  *AdminSession
	lastSeen time.Time
}

// SessionStore hält die Admin-Sitzungen im Speicher. Sitzungen, die länger als TTL nicht
// benutzt wurden, verfallen; über MaxSessions hinaus wird die am längsten unbenutzte
// Sitzung verdrängt.
type SessionStore struct {
	Repo        *Repository
	Fallback    Credentials
	DemoData    models.Dataset
	Logger      *zap.Logger
	TTL         time.Duration
	MaxSessions int

	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionStore erstellt einen leeren SessionStore.
func NewSessionStore(repo *Repository, fallback Credentials, demo models.Dataset, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		Repo:        repo,
		Fallback:    fallback,
		DemoData:    demo,
		Logger:      logger,
		TTL:         DefaultSessionTTL,
		MaxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    map[string]*sessionEntry{},
	}
}

// Get liefert eine bestehende, nicht abgelaufene Sitzung und verlängert sie.
func (st *SessionStore) Get(id string) (*AdminSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(e, now) {
		delete(st.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// Open erzeugt eine neue, noch nicht angemeldete Sitzung.
func (st *SessionStore) Open() *AdminSession {
	s := NewAdminSession(uuid.NewString(), st.Repo, st.Fallback, st.DemoData, st.Logger)
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.prune(now)
	if st.MaxSessions > 0 && len(st.sessions) >= st.MaxSessions {
		st.evictOldest()
	}
	st.sessions[s.ID] = &sessionEntry{session: s, lastSeen: now}
	return s
}

// Close entfernt eine Sitzung (Abmelden).
func (st *SessionStore) Close(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len liefert die Anzahl gehaltener Sitzungen.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *SessionStore) expired(e *sessionEntry, now time.Time) bool {
	return st.TTL > 0 && now.Sub(e.lastSeen) > st.TTL
}

func (st *SessionStore) prune(now time.Time) {
	for id, e := range st.sessions {
		if st.expired(e, now) {
			delete(st.sessions, id)
		}
	}
}

func (st *SessionStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range st.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID != "" {
		st.Logger.Info("Verdränge älteste Admin-Sitzung", zap.String("session", oldestID))
		delete(st.sessions, oldestID)
	}
}
