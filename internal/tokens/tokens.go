package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/config"
	"github.com/faqhub/faqhub/backend/go-services/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// Subject is the identity an access token is issued for.
type Subject struct {
	ID       string
	Username string
	Role     string
}

// GenerateAccessToken creates a signed HS256 access token for the admin.
func GenerateAccessToken(cfg *config.Config, s Subject, ttl time.Duration) (string, error) {
	if cfg.JWT.Secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      s.ID,
		"username": s.Username,
		"role":     s.Role,
		"iss":      cfg.JWT.Issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

type token struct {
	claims jwt.MapClaims
}

func (t *token) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verifier validates tokens issued by GenerateAccessToken.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{secret: []byte(cfg.JWT.Secret), issuer: cfg.JWT.Issuer}
}

func (v *Verifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return v.secret, nil }, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return &token{claims: claims}, nil
}

var _ middleware.Verifier = (*Verifier)(nil)
