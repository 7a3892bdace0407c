package services

import (
	"context"
	"errors"
	"time"

	"gymfit/internal/domain"
	"gymfit/internal/kv"
)

// Session is what the BFF keeps per browser. It is stored as JSON under
// session:<id> in the local store and restored without asking the users
// service again.
type Session struct {
	ID        string       `json:"id"`
	User      *domain.User `json:"user,omitempty"`
	Token     string       `json:"token,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (s *Session) Authenticated() bool { return s != nil && s.User != nil }

func (s *Session) Auth() domain.AuthData {
	if !s.Authenticated() {
		return domain.AuthData{}
	}
	return domain.AuthData{User: s.User, IsAuthenticated: true}
}

type SessionStore struct{ KV kv.Store }

// Load returns the stored session for sid, or a fresh anonymous one.
func (st *SessionStore) Load(ctx context.Context, sid string) (*Session, error) {
	var s Session
	err := kv.Load(ctx, st.KV, kv.SessionKey(sid), &s)
	if errors.Is(err, kv.ErrMissing) {
		return &Session{ID: sid, CreatedAt: time.Now().UTC()}, nil
	}
	if err != nil {
		return nil, err
	}
	s.ID = sid
	return &s, nil
}

func (st *SessionStore) Save(ctx context.Context, s *Session) error {
	return kv.Save(ctx, st.KV, kv.SessionKey(s.ID), s)
}

func (st *SessionStore) Delete(ctx context.Context, sid string) error {
	return st.KV.Delete(ctx, kv.SessionKey(sid))
}
