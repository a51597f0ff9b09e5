package database

const (
	DriverMySQL   = "mysql"
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds configuration for the database connection.
type Config struct {
	// Driver is the database driver (mysql, sqlite, mongodb).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// URL is a full connection string. When set it takes precedence over the
	// host/port fields (a DSN for mysql, a file path for sqlite, a mongodb:// URI).
	URL string `mapstructure:"url" default:""`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name (file name for sqlite).
	Name string `mapstructure:"name" default:"contests.db"`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// IsSQL reports whether the driver is served through GORM.
func (c Config) IsSQL() bool {
	return c.Driver == DriverMySQL || c.Driver == DriverSQLite
}

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverMySQL, DriverSQLite, DriverMongoDB:
		return true
	default:
		return false
	}
}
