package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/auth"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/dto"
)

// Credential is one configured API client.
type Credential struct {
	ClientID     string
	ClientSecret string
	Name         string
	Admin        bool
}

// AuthHandler exchanges configured credentials for access tokens.
type AuthHandler struct {
	BaseHandler
	jwt         *auth.JWTService
	credentials []Credential
	tokenTTL    time.Duration
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(jwt *auth.JWTService, credentials []Credential, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{jwt: jwt, credentials: credentials, tokenTTL: tokenTTL}
}

// Token issues an access token for valid credentials.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cred, ok := h.match(req.ClientID, req.ClientSecret)
	if !ok {
		h.Error(c, apperror.NewUnauthorized("invalid credentials"))
		return
	}

	token, err := h.jwt.Generate(appctx.Actor{
		ID:    cred.ClientID,
		Name:  cred.Name,
		Admin: cred.Admin,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}

func (h *AuthHandler) match(clientID, secret string) (Credential, bool) {
	for _, cred := range h.credentials {
		idMatch := subtle.ConstantTimeCompare([]byte(cred.ClientID), []byte(clientID)) == 1
		secretMatch := subtle.ConstantTimeCompare([]byte(cred.ClientSecret), []byte(secret)) == 1
		if idMatch && secretMatch {
			return cred, true
		}
	}
	return Credential{}, false
}
