package tokens

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB abre uma instância GORM sobre sqlmock.
// SkipDefaultTransaction evita BEGIN/COMMIT nas expectations de escrita.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var conn *sql.DB = db
	dialector := postgres.New(postgres.Config{Conn: conn})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("Failed to open GORM with mock: %v", err)
	}
	return gormDB, mock
}

var tokenColumns = []string{"id", "value", "user_id", "expires_at", "created_at", "updated_at"}
