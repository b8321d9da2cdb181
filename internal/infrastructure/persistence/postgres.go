package persistence

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB opens a GORM connection to PostgreSQL. TranslateError is on
// so unique-constraint violations surface as gorm.ErrDuplicatedKey instead of
// driver-specific errors.
func NewPostgresDB(uri string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(uri), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
