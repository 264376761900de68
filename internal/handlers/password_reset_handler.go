package handlers

import (
	"fmt"
	"net/http"

	"vegaaccounts/backend/internal/database"
	"vegaaccounts/backend/internal/models"
	"vegaaccounts/backend/internal/notifications"
	"vegaaccounts/backend/internal/settings"
	"vegaaccounts/backend/internal/tokens"
	vglog "vegaaccounts/backend/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type ForgotPasswordPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordHandler inicia o processo de reset de senha: emite (ou
// renova) o token de reset e envia o e-mail com instruções.
func ForgotPasswordHandler(c *gin.Context) {
	log := vglog.L.Named("ForgotPasswordHandler")
	var payload ForgotPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("email = ?", payload.Email).Take(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"email": "email not found."})
		return
	}

	engine := tokens.NewEngine(db, settings.Default)
	token, err := engine.IssueOrRefresh(c.Request.Context(), models.PurposePasswordReset, user.ID)
	if err != nil {
		log.Error("Failed to issue password reset token", zap.String("userID", user.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	link, host := buildTokenLink(c, fmt.Sprintf("/password-reset/confirm/%s/", token.Value))
	if err := notifications.DefaultDispatcher.SendTokenMail(c.Request.Context(), models.PurposePasswordReset, &user, link, host); err != nil {
		// O token já está persistido; a falha de entrega não o desfaz.
		log.Error("Failed to send password reset email", zap.String("userID", user.ID.String()), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Password reset email has been sent."})
}

type ResetPasswordConfirmPayload struct {
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required"`
}

// ResetPasswordConfirmHandler finaliza o reset de senha. O token só é
// consumido depois que a nova senha foi persistida com sucesso — uma falha
// no meio do caminho não queima um token válido.
func ResetPasswordConfirmHandler(c *gin.Context) {
	log := vglog.L.Named("ResetPasswordConfirmHandler")
	value := c.Param("token")

	var payload ResetPasswordConfirmPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if payload.Password != payload.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"password": "Provided passwords does not match."})
		return
	}

	db := database.GetDB()
	engine := tokens.NewEngine(db, settings.Default)

	token, outcome, err := engine.Validate(c.Request.Context(), models.PurposePasswordReset, value)
	if err != nil {
		log.Error("Failed to validate password reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
		return
	}

	switch outcome {
	case tokens.OutcomeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"token": "token not found."})
		return
	case tokens.OutcomeExpired:
		c.JSON(http.StatusBadRequest, gin.H{"token": "token has expired."})
		return
	}

	var user models.User
	if err := db.Where("id = ?", token.UserID).Take(&user).Error; err != nil {
		log.Error("Failed to load token owner", zap.String("userID", token.UserID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash new password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process new password"})
		return
	}

	user.PasswordHash = string(hashedPassword)
	if err := db.Save(&user).Error; err != nil {
		log.Error("Failed to update password", zap.String("userID", user.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if err := engine.Consume(c.Request.Context(), models.PurposePasswordReset, token); err != nil {
		log.Error("Failed to consume password reset token", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"password": "Password has been changed."})
}
