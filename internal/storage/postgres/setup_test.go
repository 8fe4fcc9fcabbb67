package postgres

import (
	"testing"

	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Disable logs during tests
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Job{},
		&models.Order{},
		&models.MediaOutput{},
		&models.VideoBatch{},
		&models.BatchVideo{},
		&models.BatchClip{},
		&models.BatchClipText{},
		&models.UsageCounter{},
		&models.LedgerTransaction{},
	)
	require.NoError(t, err)

	return db
}
