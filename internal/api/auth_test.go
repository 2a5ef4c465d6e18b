package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestSignupInvalidatesUserCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	store := cache.NewMemoryStore()
	ctx := context.Background()

	// A roster from before the signup is already cached
	stale := []UserResponse{{ID: 1, Username: "old", Email: "old@example.com"}}
	if err := store.Set(ctx, cache.ListKey("user"), stale, cache.DefaultTTL); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	r := gin.New()
	r.POST("/users", RegisterHandler(db, store))

	body := `{"email":"new@example.com","username":"newuser","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	// The next list read must fall through to the database
	var out []UserResponse
	if found, _ := store.Get(ctx, cache.ListKey("user"), &out); found {
		t.Fatal("user list cache should be invalidated by signup")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSignupRejectionLeavesCacheUntouched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	store := cache.NewMemoryStore()
	ctx := context.Background()

	stale := []UserResponse{{ID: 1, Username: "old", Email: "old@example.com"}}
	if err := store.Set(ctx, cache.ListKey("user"), stale, cache.DefaultTTL); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	r := gin.New()
	r.POST("/users", RegisterHandler(db, store))

	// Invalid password, the handler rejects before touching DB or cache
	body := `{"email":"new@example.com","username":"newuser","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var out []UserResponse
	if found, _ := store.Get(ctx, cache.ListKey("user"), &out); !found {
		t.Fatal("a rejected signup must not invalidate the cache")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
