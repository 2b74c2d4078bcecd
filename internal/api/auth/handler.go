package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/subscription"
	"edustream-app/internal/identity"
	"edustream-app/internal/session"
	"edustream-app/internal/store"

	"github.com/gin-gonic/gin"
)

// Register creates the credential and the account record, starts the 24h
// trial, and signs the new teacher straight in.
func Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, err := identity.Svc.SignUp(c.Request.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, identity.ErrBadEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	case errors.Is(err, identity.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	case errors.Is(err, identity.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	account := accounts.Account{
		ID:    principal.ID,
		Email: principal.Email,
		Role:  accounts.RoleTeacher,
	}
	subscription.ApplyToAccount(&account, subscription.StartTrial(time.Now()))

	if _, err := store.Accounts.Add(c.Request.Context(), account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := identity.IssueToken(principal.ID, principal.Email, account.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, err := identity.Svc.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// A principal without an account record is a corrupt session; refuse to
	// sign in halfway.
	account, err := store.Accounts.Get(c.Request.Context(), principal.ID)
	if errors.Is(err, store.ErrNotFound) {
		log.Println("principal without account record:", principal.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not available, please contact support"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	token, err := identity.IssueToken(principal.ID, principal.Email, account.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout tears down the server-side session, which also ends any
// impersonation overlay.
func Logout(c *gin.Context) {
	principalID := c.GetString("principal_id")
	session.Sessions.SignOut(principalID)
	_ = identity.Svc.SignOut(c.Request.Context(), principalID)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func RequestPasswordReset(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid email"})
		return
	}

	token, err := identity.Svc.SendPasswordReset(c.Request.Context(), body.Email)
	if errors.Is(err, identity.ErrNotFound) {
		// Don't expose whether the email exists
		c.JSON(http.StatusOK, gin.H{"message": "If your email exists, you'll receive a reset link."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	if err := SendResetEmail(body.Email, token); err != nil {
		log.Println("reset email failed:", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If your email exists, you'll receive a reset link."})
}

func ResetPassword(c *gin.Context) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := identity.Svc.ResetPassword(c.Request.Context(), body.Token, body.NewPassword)
	switch {
	case errors.Is(err, identity.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with letters and numbers"})
		return
	case errors.Is(err, identity.ErrBadResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
