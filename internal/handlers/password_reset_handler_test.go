package handlers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func passwordResetRouter() *gin.Engine {
	r := gin.New()
	r.POST("/password-reset/", ForgotPasswordHandler)
	r.POST("/password-reset/confirm/:token/", ResetPasswordConfirmHandler)
	return r
}

func TestForgotPasswordHandler_MissingEmail(t *testing.T) {
	rr := postJSON(t, passwordResetRouter(), "/password-reset/", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestForgotPasswordHandler_UnknownEmail(t *testing.T) {
	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	rr := postJSON(t, passwordResetRouter(), "/password-reset/", gin.H{"email": "ghost@example.com"})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestForgotPasswordHandler_IssuesTokenAndSendsMail(t *testing.T) {
	sentMail.Reset()
	userID := uuid.New()
	now := time.Now()

	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID, "joana", "joana@example.com", "hash", true, now, now))
	sqlMock.ExpectQuery(`SELECT \* FROM "password_reset_tokens" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows(tokenColumns))
	sqlMock.ExpectQuery(`INSERT INTO "password_reset_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	sqlMock.ExpectExec(`UPDATE "password_reset_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postJSON(t, passwordResetRouter(), "/password-reset/", gin.H{"email": "joana@example.com"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, sentMail.SendCalled)
	assert.Equal(t, "joana@example.com", sentMail.LastTo)
	assert.Regexp(t, regexp.MustCompile(`/password-reset/confirm/([A-Za-z0-9]{55})/`), sentMail.LastHTML)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResetPasswordConfirmHandler_PasswordMismatch(t *testing.T) {
	rr := postJSON(t, passwordResetRouter(), "/password-reset/confirm/sometokenvalue/", gin.H{
		"password":  "newstrongpassword",
		"password2": "otherpassword",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"password": "Provided passwords does not match."}`, rr.Body.String())
	// Nem sequer consultamos o token: a validação de payload vem antes.
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResetPasswordConfirmHandler_UnknownToken(t *testing.T) {
	sqlMock.ExpectQuery(`SELECT \* FROM "password_reset_tokens" WHERE value = \$1`).
		WillReturnRows(sqlmock.NewRows(tokenColumns))

	rr := postJSON(t, passwordResetRouter(), "/password-reset/confirm/nosuchtoken/", gin.H{
		"password":  "newstrongpassword",
		"password2": "newstrongpassword",
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResetPasswordConfirmHandler_ExpiredToken(t *testing.T) {
	userID := uuid.New()
	expiredAt := time.Now().Add(-5 * time.Second)
	sqlMock.ExpectQuery(`SELECT \* FROM "password_reset_tokens" WHERE value = \$1`).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow(6, "expiredtokenvalue", userID, expiredAt, expiredAt, expiredAt))

	rr := postJSON(t, passwordResetRouter(), "/password-reset/confirm/expiredtokenvalue/", gin.H{
		"password":  "newstrongpassword",
		"password2": "newstrongpassword",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"token": "token has expired."}`, rr.Body.String())
	// Senha intocada e token preservado: nenhum UPDATE, nenhum DELETE.
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResetPasswordConfirmHandler_Success(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	expiresAt := now.Add(1 * time.Hour)
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)

	sqlMock.ExpectQuery(`SELECT \* FROM "password_reset_tokens" WHERE value = \$1`).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow(6, "validtokenvalue", userID, expiresAt, now, now))
	sqlMock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID, "joana", "joana@example.com", string(oldHash), true, now, now))
	sqlMock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec(`DELETE FROM "password_reset_tokens" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postJSON(t, passwordResetRouter(), "/password-reset/confirm/validtokenvalue/", gin.H{
		"password":  "newstrongpassword",
		"password2": "newstrongpassword",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"password": "Password has been changed."}`, rr.Body.String())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
