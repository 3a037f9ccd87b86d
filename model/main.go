package model

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func chooseDB(envName string) (*gorm.DB, error) {
	dsn := os.Getenv(envName)
	if envName == "SQL_DSN" && dsn == "" {
		dsn = config.SQLDSN
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		logger.SysLog("using PostgreSQL as database")
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), &gorm.Config{
			PrepareStmt: true, // precompile SQL
		})
	case dsn != "":
		logger.SysLog("using MySQL as database")
		// Use MySQL
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{
			PrepareStmt: true, // precompile SQL
		})
	}
	// Use SQLite
	logger.SysLog("SQL_DSN not set, using SQLite as database")
	return OpenSQLite(common.SQLitePath)
}

// OpenSQLite opens path (":memory:" works) with the service's busy timeout.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == ":memory:" {
		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		// every connection would get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", path, common.SQLiteBusyTimeout)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func InitDB(envName string) (db *gorm.DB, err error) {
	db, err = chooseDB(envName)
	if err != nil {
		logger.FatalLog(err)
		return nil, err
	}
	if config.DebugSQLEnabled {
		db = db.Debug()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Second * 60)

	if err = Migrate(db); err != nil {
		return nil, err
	}
	logger.SysLog("database migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	logger.SysLog("database migration started")
	if err := db.AutoMigrate(&Design{}); err != nil {
		return err
	}
	return db.AutoMigrate(&Asset{})
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
