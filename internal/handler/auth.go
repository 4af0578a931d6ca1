package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/auth"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/config"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

const providerGoogle = "google"

var errBanned = errors.New("user is banned")

type AuthHandler struct {
	db           *gorm.DB
	cfg          *config.Config
	googleConfig *oauth2.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, googleConfig *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		db:           db,
		cfg:          cfg,
		googleConfig: googleConfig,
	}
}

// GoogleAuth redirects to the Google consent screen
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state := generateState()
	// CSRF protection
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// GoogleCallback signs the user in and hands both tokens to the frontend
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	savedState, err := c.Cookie("oauth_state")
	if err != nil || c.Query("state") != savedState {
		h.loginFailed(c, "invalid_state", nil)
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		h.loginFailed(c, "no_code", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := h.googleConfig.Exchange(ctx, code)
	if err != nil {
		h.loginFailed(c, "exchange_failed", err)
		return
	}
	info, err := auth.GetGoogleUserInfo(ctx, token)
	if err != nil {
		h.loginFailed(c, "user_info_failed", err)
		return
	}

	user, err := h.signIn(ctx, info)
	if errors.Is(err, errBanned) {
		h.loginFailed(c, "banned", nil)
		return
	}
	if err != nil {
		h.loginFailed(c, "db_error", err)
		return
	}

	accessToken, refreshToken, err := h.issueTokens(ctx, &user)
	if err != nil {
		h.loginFailed(c, "token_failed", err)
		return
	}

	query := url.Values{"accessToken": {accessToken}, "refreshToken": {refreshToken}}
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL+"?"+query.Encode())
}

// loginFailed sends the browser back to the frontend with an error code.
func (h *AuthHandler) loginFailed(c *gin.Context, code string, err error) {
	if err != nil {
		log.Printf("Google login failed (%s): %v", code, err)
	}
	query := url.Values{"error": {code}}
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL+"?"+query.Encode())
}

// signIn finds or creates the user behind a Google account. Profile fields
// are refreshed on every login and ADMIN_EMAILS only ever promotes.
func (h *AuthHandler) signIn(ctx context.Context, info *auth.GoogleUserInfo) (model.User, error) {
	db := h.db.WithContext(ctx)
	now := time.Now()

	var user model.User
	err := db.Where("provider = ? AND provider_id = ?", providerGoogle, info.ID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			ID:         uuid.NewString(),
			Provider:   providerGoogle,
			ProviderID: info.ID,
			Email:      info.Email,
			Name:       info.Name,
			AvatarURL:  info.Picture,
			Role:       h.roleFor(info.Email),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Create(&user).Error; err != nil {
			return model.User{}, fmt.Errorf("create user: %w", err)
		}
	case err != nil:
		return model.User{}, fmt.Errorf("find user: %w", err)
	default:
		updates := map[string]interface{}{
			"email":      info.Email,
			"name":       info.Name,
			"avatar_url": info.Picture,
			"updated_at": now,
		}
		if h.cfg.IsAdminEmail(info.Email) {
			updates["role"] = model.RoleAdmin
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return model.User{}, fmt.Errorf("update user: %w", err)
		}
		user.Email, user.Name, user.AvatarURL, user.UpdatedAt = info.Email, info.Name, info.Picture, now
		if role, ok := updates["role"].(string); ok {
			user.Role = role
		}
	}

	if user.Banned {
		return model.User{}, errBanned
	}
	return user, nil
}

func (h *AuthHandler) issueTokens(ctx context.Context, user *model.User) (string, string, error) {
	accessToken, err := auth.GenerateAccessToken(user, h.cfg.JWTSecret)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", "", err
	}
	record := model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(auth.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := h.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken issues a new access token for a live refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var stored model.RefreshToken
	if err := db.Where("token = ? AND revoked = false AND expires_at > ?", req.RefreshToken, time.Now()).First(&stored).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	var user model.User
	if err := db.Where("id = ?", stored.UserID).First(&user).Error; err != nil || user.Banned {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(&user, h.cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"expiresIn":   int(auth.AccessTokenExpiry.Seconds()),
	})
}

// Logout revokes a refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	err := h.db.WithContext(c.Request.Context()).
		Model(&model.RefreshToken{}).
		Where("token = ?", req.RefreshToken).
		Update("revoked", true).Error
	if err != nil {
		log.Printf("Failed to revoke refresh token: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to revoke refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Me returns the signed-in user
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var user model.User
	if err := h.db.WithContext(c.Request.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) roleFor(email string) string {
	if h.cfg.IsAdminEmail(email) {
		return model.RoleAdmin
	}
	return model.RoleContributor
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
