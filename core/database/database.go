package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a GORM connection for the mysql or sqlite drivers.
// It returns a *gorm.DB connection or an error if the connection fails.
func Connect(cfg Config) (*gorm.DB, error) {
	timeout := timeoutOf(cfg)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		dialector = mysql.Open(mysqlDSN(cfg, timeout))
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	// Suppress GORM logging, repository errors are reported by the caller
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// A single connection keeps ":memory:" databases shared and avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// mysqlDSN builds the go-sql-driver DSN.
// Format: [username[:password]@][protocol[(address)]]/dbname[?params]
func mysqlDSN(cfg Config, timeout time.Duration) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	// Special characters in the password must be URL encoded.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()
	secs := int(timeout.Seconds())

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, secs, secs, secs)
}

func sqliteDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return cfg.Name
}

func timeoutOf(cfg Config) time.Duration {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}
