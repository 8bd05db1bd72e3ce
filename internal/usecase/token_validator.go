package usecase

import (
	"parq-core/internal/domain/auth"
	"parq-core/internal/pkg/jwt"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (auth.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (auth.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return auth.Actor{}, err
	}

	role, err := auth.NewRole(claims.Role)
	if err != nil {
		return auth.Actor{}, err
	}

	return auth.NewActor(claims.UserID, role), nil
}
