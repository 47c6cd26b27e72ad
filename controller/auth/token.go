package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gtdagent/dto"
	"gtdagent/model"
	"gtdagent/services"
)

const ownerSubject = "owner"

// TokenController exchanges the owner password for an access token.
func TokenController(router *gin.Engine, secret []byte, passwordHash string) {
	router.POST("/auth/token", func(c *gin.Context) {
		Token(c, secret, passwordHash)
	})
}

func Token(c *gin.Context, secret []byte, passwordHash string) {
	var request dto.TokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if err := services.CheckPassword(passwordHash, request.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	accessToken, err := services.CreateAccessToken(secret, ownerSubject, services.AccessTokenTTL)
	if err != nil {
		log.Printf("Failed to create access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}

	c.JSON(http.StatusOK, model.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(services.AccessTokenTTL.Seconds()),
	})
}
