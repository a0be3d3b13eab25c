package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

// DefaultSubject matches every auth state message, e.g. auth.state.<device>.
const DefaultSubject = "auth.state.>"

var _ Signal = (*NATSSignal)(nil)

// stateMessage is the wire form of an auth notification. An empty UID means
// the shopper signed out.
type stateMessage struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

// NATSSignal turns messages on a NATS subject into auth notifications.
// With a verifier configured, sign-ins must carry an ID token and the
// verified identity replaces the claimed one.
type NATSSignal struct {
	conn     *nats.Conn
	subject  string
	verifier IDTokenVerifier
	logger   *zap.Logger
}

func NewNATSSignal(conn *nats.Conn, subject string, verifier IDTokenVerifier, logger *zap.Logger) *NATSSignal {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSSignal{
		conn:     conn,
		subject:  subject,
		verifier: verifier,
		logger:   logger,
	}
}

func (s *NATSSignal) Subscribe(h Handler) (func(), error) {
	sub, err := s.conn.Subscribe(s.subject, func(msg *nats.Msg) {
		ctx := context.Background()
		state, ok := s.decode(ctx, msg.Data)
		if !ok {
			return
		}
		h(ctx, state)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe from auth subject", zap.String("subject", s.subject), zap.Error(err))
		}
	}, nil
}

// decode parses and, when required, verifies one message. Messages that
// fail either step are dropped.
func (s *NATSSignal) decode(ctx context.Context, data []byte) (models.AuthState, bool) {
	var m stateMessage
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Error("Failed to unmarshal auth state", zap.Error(err))
		return models.AuthState{}, false
	}

	uid := strings.TrimSpace(m.UID)
	if uid == "" {
		return models.Anonymous(), true
	}

	if s.verifier == nil {
		return models.AuthState{UserID: uid, Email: m.Email, DisplayName: m.DisplayName}, true
	}

	state, err := s.verifier.Verify(ctx, m.IDToken)
	if err != nil {
		s.logger.Warn("Dropping auth state with unverifiable token", zap.String("uid", uid), zap.Error(err))
		return models.AuthState{}, false
	}
	if state.Email == "" {
		state.Email = m.Email
	}
	if state.DisplayName == "" {
		state.DisplayName = m.DisplayName
	}
	return state, true
}
