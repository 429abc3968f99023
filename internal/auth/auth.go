package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

// Racing-themed words for token generation
var pitWords = []string{
	"apex", "boxbox", "grid", "pole", "stint",
	"undercut", "overcut", "deploy", "delta", "slick",
	"inter", "chicane", "kerb", "drs", "hairpin",
	"outlap", "inlap", "paddock", "gantry",
}

// Auth handles admin authentication via a bearer token
type Auth struct {
	token string
}

// New creates a new Auth instance with the given token. An empty token
// disables admin endpoints entirely.
func New(token string) *Auth {
	return &Auth{token: token}
}

// GenerateToken creates a random 3-word admin token
func GenerateToken() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = pitWords[randomInt(len(pitWords))]
	}
	return strings.Join(words, "-") + "-" + randomSuffix()
}

// Validate checks a presented token against the configured one
func (a *Auth) Validate(token string) bool {
	if a.token == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// FromRequest extracts and validates the bearer token from a request
func (a *Auth) FromRequest(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return a.Validate(token)
}

// RequireAuthAPI middleware for admin API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.FromRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - admin token required"}`))
	})
}

// randomSuffix returns 4 random hex characters
func randomSuffix() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
