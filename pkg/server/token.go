package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultRoom is the single conversation room callers join. The voice
// transport is a separate collaborator; this endpoint only gates entry.
const DefaultRoom = "support-room"

// TokenIssuer mints short-lived LiveKit-compatible room access tokens
type TokenIssuer struct {
	URL       string
	APIKey    string
	APISecret string
	Room      string
	TTL       time.Duration
}

type videoGrant struct {
	Room     string `json:"room"`
	RoomJoin bool   `json:"roomJoin"`
}

type roomTokenClaims struct {
	jwt.RegisteredClaims
	Video videoGrant `json:"video"`
}

// Issue signs a room join token for the given caller identity
func (t *TokenIssuer) Issue(identity string) (string, error) {
	if identity == "" {
		return "", goerr.New("identity is required")
	}

	room := t.Room
	if room == "" {
		room = DefaultRoom
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	now := time.Now()
	claims := roomTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.APIKey,
			Subject:   identity,
			ID:        identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Video: videoGrant{
			Room:     room,
			RoomJoin: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.APISecret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign room token")
	}

	return signed, nil
}

func handleToken(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Token == nil || deps.Token.APIKey == "" || deps.Token.APISecret == "" {
			httpError(w, http.StatusServiceUnavailable, "room token issuing is not configured")
			return
		}

		identity := r.URL.Query().Get("user_id")
		if identity == "" {
			httpError(w, http.StatusBadRequest, "user_id is required")
			return
		}

		token, err := deps.Token.Issue(identity)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to issue room token: %v", err)
			return
		}

		writeJSON(w, map[string]string{
			"token": token,
			"url":   deps.Token.URL,
		})
	}
}
