package handlers

import (
	"errors"
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
	"gorm.io/gorm"
)

type SignUpPayload struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required"`
}

// SignUpHandler cria uma nova conta. Com ativação habilitada, a conta nasce
// inativa e um token de ativação é emitido e enviado por e-mail.
func SignUpHandler(c *gin.Context) {
	log := vglog.L.Named("SignUpHandler")
	var payload SignUpPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if payload.Password != payload.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"password": "Provided passwords does not match."})
		return
	}

	db := database.GetDB()

	var existing models.User
	if err := db.Where("email = ?", payload.Email).Take(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"email": "A user with that email already exists."})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email uniqueness"})
		return
	}
	if err := db.Where("username = ?", payload.Username).Take(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"username": "A user with that username already exists."})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check username uniqueness"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	activationRequired := settings.Default.Current().ActivateAccount

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hashedPassword),
		IsActive:     !activationRequired,
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Corrida entre a checagem acima e o INSERT. A unique constraint
			// é quem decide.
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already in use."})
			return
		}
		log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	if activationRequired {
		// A conta já existe; uma falha na emissão não desfaz o cadastro.
		// O usuário pode pedir o reenvio depois.
		if err := issueAndSendActivation(c, &user); err != nil {
			log.Error("Failed to issue activation token after sign-up", zap.String("userID", user.ID.String()), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        user.ID.String(),
		"username":  user.Username,
		"email":     user.Email,
		"is_active": user.IsActive,
	})
}

// issueAndSendActivation emite (ou renova) o token de ativação e despacha o
// e-mail. Falha de emissão é devolvida ao caller; falha de envio é apenas
// logada — o token já persistido não é desfeito por causa dela.
func issueAndSendActivation(c *gin.Context, user *models.User) error {
	log := vglog.L.Named("issueAndSendActivation")
	engine := tokens.NewEngine(database.GetDB(), settings.Default)

	token, err := engine.IssueOrRefresh(c.Request.Context(), models.PurposeActivation, user.ID)
	if err != nil {
		return err
	}

	link, host := buildTokenLink(c, fmt.Sprintf("/account/activate/%s/", token.Value))
	if err := notifications.DefaultDispatcher.SendTokenMail(c.Request.Context(), models.PurposeActivation, user, link, host); err != nil {
		log.Error("Failed to send activation email", zap.String("userID", user.ID.String()), zap.Error(err))
	}
	return nil
}

// ActivateAccountHandler ativa a conta se o token de ativação for válido.
// O token só é consumido depois que a conta foi efetivamente ativada.
func ActivateAccountHandler(c *gin.Context) {
	log := vglog.L.Named("ActivateAccountHandler")
	value := c.Param("token")

	db := database.GetDB()
	engine := tokens.NewEngine(db, settings.Default)

	token, outcome, err := engine.Validate(c.Request.Context(), models.PurposeActivation, value)
	if err != nil {
		log.Error("Failed to validate activation token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
		return
	}

	switch outcome {
	case tokens.OutcomeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"token": "token not found."})
		return
	case tokens.OutcomeExpired:
		// O registro fica no lugar; um novo resend o renova.
		c.JSON(http.StatusBadRequest, gin.H{"token": "token has expired."})
		return
	}

	var user models.User
	if err := db.Where("id = ?", token.UserID).Take(&user).Error; err != nil {
		log.Error("Failed to load token owner", zap.String("userID", token.UserID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	user.IsActive = true
	if err := db.Save(&user).Error; err != nil {
		log.Error("Failed to activate account", zap.String("userID", user.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate account"})
		return
	}

	if err := engine.Consume(c.Request.Context(), models.PurposeActivation, token); err != nil {
		// A conta já está ativa; o consumo é idempotente e um retry não
		// reativa nada. Apenas logar.
		log.Error("Failed to consume activation token", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"account": "Account activated."})
}

type ResendActivationPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendActivationHandler reemite o token de ativação para uma conta ainda
// inativa. A linha existente é renovada, nunca duplicada.
func ResendActivationHandler(c *gin.Context) {
	log := vglog.L.Named("ResendActivationHandler")
	var payload ResendActivationPayload
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

	if user.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"account": "Account already activated."})
		return
	}

	if err := issueAndSendActivation(c, &user); err != nil {
		log.Error("Failed to reissue activation token", zap.String("userID", user.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Activation email has been sent."})
}
