package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"vegaaccounts/backend/internal/auth"
)

func loginRouter() *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", LoginHandler)
	return r
}

func TestLoginHandler_Success(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)

	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID, "joana", "joana@example.com", string(hash), true, now, now))

	rr := postJSON(t, loginRouter(), "/auth/login", gin.H{
		"email":    "joana@example.com",
		"password": "correcthorse",
	})

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, userID.String(), resp.UserID)
	assert.Equal(t, "joana@example.com", resp.Email)
	assert.Equal(t, "joana", resp.Username)

	claims, err := auth.ValidateToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLoginHandler_UnknownEmail(t *testing.T) {
	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	rr := postJSON(t, loginRouter(), "/auth/login", gin.H{
		"email":    "ghost@example.com",
		"password": "whatever123",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLoginHandler_InactiveAccount(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)

	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID, "joana", "joana@example.com", string(hash), false, now, now))

	rr := postJSON(t, loginRouter(), "/auth/login", gin.H{
		"email":    "joana@example.com",
		"password": "correcthorse",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "inactive")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)

	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID, "joana", "joana@example.com", string(hash), true, now, now))

	rr := postJSON(t, loginRouter(), "/auth/login", gin.H{
		"email":    "joana@example.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
