package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
)

// User is an authenticated operator of the draft service.
type User struct {
	ID       string
	Email    string
	Name     string
	Username string
	Groups   []string
}

// AuthProvider handles the login flow and protects mutating routes.
type AuthProvider interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	CallbackHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
}

type contextKey string

const userContextKey contextKey = "user"

// GetUser returns the authenticated user attached to the request, or nil.
func GetUser(r *http.Request) *User {
	user, _ := r.Context().Value(userContextKey).(*User)
	return user
}

func withUser(r *http.Request, user *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
}

// IsAdmin reports whether the user belongs to the admin group.
func IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	for _, g := range user.Groups {
		if g == "admin" || g == "admins" {
			return true
		}
	}
	return false
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// MockAuth is the development provider: every request is a local admin, the
// login flow is a no-op. Never use outside development.
type MockAuth struct{}

// NewMockAuth creates the development auth provider.
func NewMockAuth() *MockAuth {
	return &MockAuth{}
}

func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := &User{
			ID:       "dev",
			Name:     "Local Developer",
			Username: "dev",
			Groups:   []string{"admin"},
		}
		next(w, withUser(r, user))
	}
}
