//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/pkg/config"
	"parq-core/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, actor auth.Actor) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(actor)
	require.NoError(t, err)
	return token
}

// NewActorToken issues a token for a fresh actor of the given role.
func (h *JWTHelper) NewActorToken(t *testing.T, role auth.Role) (auth.Actor, string) {
	t.Helper()
	actor := auth.NewActor(uuid.New(), role)
	return actor, h.GenerateToken(t, actor)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, actor auth.Actor) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(actor)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
