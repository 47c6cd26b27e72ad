package dto

type TokenRequest struct {
	Password string `json:"password" binding:"required"`
}
