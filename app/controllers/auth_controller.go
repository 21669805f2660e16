package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login POST /api/auth/login
func (ac *AuthController) Login(c *ctx.Context) {
	var input services.LoginInput
	if !c.BindJSON(&input) {
		return
	}
	res, err := ac.service.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(res)
}

// Profile GET /api/auth/profile
func (ac *AuthController) Profile(c *ctx.Context) {
	admin, err := ac.service.Profile(c.Context(), c.Claims().AdminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(admin)
}

// ChangePassword POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *ctx.Context) {
	var input services.ChangePasswordInput
	if !c.BindJSON(&input) {
		return
	}
	if err := ac.service.ChangePassword(c.Context(), c.Claims().AdminID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.SuccessMessage("Password changed")
}
