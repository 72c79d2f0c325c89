package http

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity is a verified caller as reported by the external identity
// provider. Token issuance and credential checks happen outside this module.
type Identity struct {
	Name  string
	Email string
}

// Authenticator resolves a bearer token to an identity. ErrUnknownToken
// rejects the request with 401.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}

var ErrUnknownToken = fmt.Errorf("unknown token")

// StaticTokenAuthenticator resolves tokens from a fixed table. Meant for
// development and tests; production deployments plug in a real provider.
type StaticTokenAuthenticator struct {
	tokens map[string]Identity
}

func NewStaticTokenAuthenticator(tokens map[string]Identity) *StaticTokenAuthenticator {
	return &StaticTokenAuthenticator{tokens: tokens}
}

// LoadStaticTokens reads a token table from a file. Each non-comment line is
// "token email display name", whitespace separated, name taking the rest of
// the line.
func LoadStaticTokens(path string) (*StaticTokenAuthenticator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tokens file: %w", err)
	}
	defer f.Close()

	tokens := make(map[string]Identity)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed token line: %q", line)
		}
		identity := Identity{Email: fields[1]}
		if len(fields) > 2 {
			identity.Name = strings.Join(fields[2:], " ")
		}
		tokens[fields[0]] = identity
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}
	return &StaticTokenAuthenticator{tokens: tokens}, nil
}

func (a *StaticTokenAuthenticator) Authenticate(_ context.Context, token string) (Identity, error) {
	identity, ok := a.tokens[token]
	if !ok {
		return Identity{}, ErrUnknownToken
	}
	return identity, nil
}

const identityKey = "auth_identity"

// authMiddleware extracts the bearer token, resolves it and provisions the
// user record, storing the user on the gin context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := s.auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := s.users.Provision(c.Request.Context(), identity.Name, identity.Email)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, user)
		c.Next()
	}
}
