package testutil

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"bookstore/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed via t.Cleanup. name must be unique per test since
// shared-cache memory databases live as long as a connection is open.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	// We use a shared cache memory database so that multiple connections share the same DB.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// OpenTempFileDB opens a migrated SQLite file under t.TempDir(). Use it when a test
// needs real concurrent writers, which shared-cache memory databases do not model.
func OpenTempFileDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open temp db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// GenerateSessionToken returns a signed session JWT with the claims the app reads.
func GenerateSessionToken(t *testing.T, secret string, userID int64, username, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":  userID,
		"name": username,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// SessionCookie wraps a session token in a cookie named cookieName.
func SessionCookie(cookieName, token string) *http.Cookie {
	return &http.Cookie{Name: cookieName, Value: token, Path: "/"}
}
