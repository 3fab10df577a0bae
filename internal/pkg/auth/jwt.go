package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/talabahamkor/choyxona/internal/app/models"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// JWTConfig defines JWT validation settings
type JWTConfig struct {
	SecretKey   string
	TokenExp    time.Duration
	TokenIssuer string
}

// JWTService validates the tokens issued by the auth collaborator. This
// subsystem never authenticates credentials; it only reads the actor
// identity the surrounding backend signed into the token.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// ActorClaims defines the token content: the full actor identity, including
// organizational position and moderator capabilities, resolved once at the
// auth boundary.
type ActorClaims struct {
	ActorID      int64                   `json:"actorId"`
	UniversityID int64                   `json:"universityId"`
	FacultyID    *int64                  `json:"facultyId,omitempty"`
	SpecialtyID  *int64                  `json:"specialtyId,omitempty"`
	GroupID      *int64                  `json:"groupId,omitempty"`
	ModScopes    []models.ModeratorScope `json:"moderatorScopes,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the request-scoped actor value.
func (c *ActorClaims) Actor() *models.Actor {
	return &models.Actor{
		ID:           c.ActorID,
		UniversityID: c.UniversityID,
		FacultyID:    c.FacultyID,
		SpecialtyID:  c.SpecialtyID,
		GroupID:      c.GroupID,
		ModScopes:    c.ModScopes,
	}
}

// GenerateActorToken signs a token for an actor. Production tokens come from
// the auth collaborator; this is used by local development seeding and tests.
func (s *JWTService) GenerateActorToken(actor *models.Actor) (string, error) {
	expiry := time.Now().Add(s.config.TokenExp)

	claims := &ActorClaims{
		ActorID:      actor.ID,
		UniversityID: actor.UniversityID,
		FacultyID:    actor.FacultyID,
		SpecialtyID:  actor.SpecialtyID,
		GroupID:      actor.GroupID,
		ModScopes:    actor.ModScopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.config.TokenIssuer,
			Subject:   fmt.Sprintf("%d", actor.ID),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign actor token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*ActorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateAndExtractClaims validates and extracts claims from a token string
func (s *JWTService) ValidateAndExtractClaims(tokenString string) (*ActorClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.ActorID <= 0 || claims.UniversityID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return authHeader, nil
}
