package services

import (
	"fmt"
	"net/http"
	"time"

	"etalase/internal/config"
	"etalase/internal/errx"
	"etalase/internal/metrics"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GateState is the admin panel lock state.
type GateState int

const (
	Locked GateState = iota
	Unlocked
)

func (s GateState) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// AdminGate unlocks the admin panel when both fixed credentials match exactly.
// It is UI state only: the credentials are configuration constants and the
// check is not meant as access control.
type AdminGate struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
	audit        *SecurityLogger
}

// NewAdminGate hashes the configured password and prepares the session signer.
// An empty SessionSecret gets a random per-process secret.
func NewAdminGate(cfg config.AdminConfig, audit *SecurityLogger) (*AdminGate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AdminGate{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
		audit:        audit,
	}, nil
}

func (g *AdminGate) TTL() time.Duration {
	return g.ttl
}

// Login checks the credentials and returns a signed session token.
func (g *AdminGate) Login(username, password, ip string) (string, error) {
	if username != g.username || bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		g.audit.LogSecurityEvent(EventLoginFailure, "username="+username, ip)
		return "", errx.New(nil, http.StatusUnauthorized, "✗ Username/password salah")
	}

	now := g.now()
	claims := jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   g.username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(g.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	g.audit.LogSecurityEvent(EventLoginSuccess, "session="+claims.Id, ip)
	return token, nil
}

// State reports whether token unlocks the panel.
func (g *AdminGate) State(token string) GateState {
	if token == "" {
		return Locked
	}
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject != g.username {
		return Locked
	}
	return Unlocked
}

// Logout records the lock transition. The session cookie is cleared by the caller.
func (g *AdminGate) Logout(ip string) {
	g.audit.LogSecurityEvent(EventLogout, "panel locked", ip)
}
