// Package auth validates HS256 bearer tokens and gates routes by staff role.
// Tokens are issued elsewhere; this package only checks them.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	Admin        Role = "Admin"
	Doctor       Role = "Doctor"
	Receptionist Role = "Receptionist"
	Pharmacist   Role = "Pharmacist"
	Lab          Role = "Lab"
)

var AllRoles = []Role{Admin, Doctor, Receptionist, Pharmacist, Lab}

// Claims accepts either a single "role" or a "roles" array.
type Claims struct {
	jwt.RegisteredClaims
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

func (c Claims) roles() []Role {
	out := make([]Role, 0, len(c.Roles)+1)
	if c.Role != "" {
		out = append(out, Role(c.Role))
	}
	for _, r := range c.Roles {
		out = append(out, Role(r))
	}
	return out
}

type Principal struct {
	Subject string
	Roles   []Role
}

func (p Principal) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

type Config struct {
	Secret []byte
	Issuer string
	// Dev without a secret lets every request through with all roles.
	Dev bool
}

type Authenticator struct {
	cfg Config
}

func New(cfg Config) *Authenticator {
	return &Authenticator{cfg: cfg}
}

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadFormat     = errors.New("invalid authorization format")
	errNoRoles       = errors.New("token carries no role")
)

func (a *Authenticator) devMode() bool {
	return a.cfg.Dev && len(a.cfg.Secret) == 0
}

// Authenticate parses and checks a raw "Bearer ..." header value.
func (a *Authenticator) Authenticate(header string) (Principal, error) {
	if a.devMode() {
		return Principal{Subject: "dev-user", Roles: AllRoles}, nil
	}
	if header == "" {
		return Principal{}, errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return Principal{}, errBadFormat
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.cfg.Issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (interface{}, error) {
		return a.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return Principal{}, err
	}
	if !parsed.Valid {
		return Principal{}, jwt.ErrTokenSignatureInvalid
	}

	roles := claims.roles()
	if len(roles) == 0 {
		return Principal{}, errNoRoles
	}
	return Principal{Subject: claims.Subject, Roles: roles}, nil
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			deny(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Sign issues a token for local tooling and tests.
func (a *Authenticator) Sign(subject string, ttl time.Duration, roles ...Role) (string, error) {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: names,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.Secret)
}

// RequireRole lets the request through when the principal holds at least one
// of roles.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
				return
			}
			if !p.HasAny(roles...) {
				names := make([]string, len(roles))
				for i, role := range roles {
					names[i] = string(role)
				}
				deny(w, http.StatusForbidden, "forbidden", "required role: "+strings.Join(names, " or "))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "details": details})
}
