package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/auth"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/config"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&model.User{}, &model.RefreshToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:3000",
		AdminEmails: []string{"lead@example.org"},
	}
	return NewAuthHandler(db, cfg, nil)
}

func TestSignInCreatesAndPromotesUsers(t *testing.T) {
	h := newAuthHandler(t)
	ctx := context.Background()

	user, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g1", Email: "reader@example.org", Name: "Reader"})
	if err != nil || user.Role != model.RoleContributor {
		t.Fatalf("new user: %+v %v", user, err)
	}

	lead, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g2", Email: "lead@example.org", Name: "Lead"})
	if err != nil || lead.Role != model.RoleAdmin {
		t.Fatalf("listed e-mail must sign in as admin: %+v %v", lead, err)
	}

	// The same account coming back with a listed address is promoted.
	again, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g1", Email: "lead@example.org", Name: "Reader"})
	if err != nil || again.ID != user.ID || again.Role != model.RoleAdmin {
		t.Fatalf("returning user: %+v %v", again, err)
	}
	var stored model.User
	if err := h.db.Where("id = ?", user.ID).First(&stored).Error; err != nil || stored.Role != model.RoleAdmin {
		t.Fatalf("promotion not stored: %+v %v", stored, err)
	}
}

func TestSignInRefusesBannedUsers(t *testing.T) {
	h := newAuthHandler(t)
	ctx := context.Background()
	user, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g1", Email: "troll@example.org"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := h.db.Model(&model.User{}).Where("id = ?", user.ID).Update("banned", true).Error; err != nil {
		t.Fatalf("ban: %v", err)
	}
	if _, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g1", Email: "troll@example.org"}); !errors.Is(err, errBanned) {
		t.Fatalf("expected errBanned, got %v", err)
	}
}

func TestSignInSurfacesUpdateFailures(t *testing.T) {
	h := newAuthHandler(t)
	ctx := context.Background()
	if _, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g1", Email: "reader@example.org"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := h.db.Migrator().DropColumn(&model.User{}, "avatar_url"); err != nil {
		t.Fatalf("drop column: %v", err)
	}
	if _, err := h.signIn(ctx, &auth.GoogleUserInfo{ID: "g1", Email: "reader@example.org", Picture: "p.png"}); err == nil {
		t.Fatalf("expected the failed profile update to be reported")
	}
}

func TestLoginFailureRedirectsWithCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAuthHandler(t)
	r := gin.New()
	r.GET("/auth/google/callback", h.GoogleCallback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=a", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "b"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil || loc.Query().Get("error") != "invalid_state" {
		t.Fatalf("unexpected redirect %q", w.Header().Get("Location"))
	}
}
