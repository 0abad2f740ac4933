package db

import (
	"database/sql"
	"gitlab.com/MikeTTh/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

var db *gorm.DB

func Connect() error {
	dsn := env.StringOrPanic("DATABASE_URL")
	return ConnectWith(postgres.Open(dsn))
}

// ConnectWith opens the database over an arbitrary dialector and runs
// migrations. Tests use it with an sqlite dialector, Connect with postgres.
func ConnectWith(dialector gorm.Dialector) (err error) {
	db, err = gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true, // Epic performance improvement
		TranslateError:         true, // unique violations surface as gorm.ErrDuplicatedKey on every backend
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return
	}

	var sqlDB *sql.DB
	sqlDB, err = db.DB()
	if err != nil {
		return
	}

	// hopefully this sets stuff globally
	sqlDB.SetConnMaxLifetime(time.Minute * 15)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)

	err = db.AutoMigrate(&User{}, &SurveyRun{}, &SurveyAnswer{}, &LivePollVote{}, &LivePollActivation{})
	if err != nil {
		return
	}

	return
}
