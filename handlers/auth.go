package handlers

import (
	"net/http"

	"consultly/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes the identity operations.
type AuthHandler struct {
	Svc identity.IdentityService
}

func NewAuthHandler(svc identity.IdentityService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// LoginHandler signs in against the upstream identity service and returns
// the identity plus the bearer the front end must present from now on.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("Sign-in failed", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	cred, _ := h.Svc.Credential()
	c.JSON(http.StatusOK, gin.H{"user": id, "jwt": cred.APIToken})
}

// RegisterHandler creates an account upstream and signs the identity in.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		ExternalID string `json:"externalId" binding:"required"`
		Email      string `json:"email" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.Svc.Register(c.Request.Context(), req.ExternalID, req.Email, req.Password)
	if err != nil {
		logger.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	cred, _ := h.Svc.Credential()
	c.JSON(http.StatusCreated, gin.H{"user": id, "jwt": cred.APIToken})
}

// LogoutHandler clears the persisted credential. It always succeeds.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.Svc.SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// MeHandler returns the current identity.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	id, ok := h.Svc.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, id)
}

// UpdateDeviceTokenHandler registers the FCM token pushes are sent to.
func (h *AuthHandler) UpdateDeviceTokenHandler(c *gin.Context) {
	var req struct {
		DeviceToken string `json:"deviceToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Svc.SetDeviceToken(c.Request.Context(), req.DeviceToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
