// Package database handles database connections and schema inspection.
//
// It wraps GORM for the SQL drivers (mysql, sqlite) and the official MongoDB driver
// for document storage. Which one is used is decided by Config.Driver; the contest
// feature picks the matching repository implementation.
//
// # Connect
//
// Connect opens a GORM connection and verifies it with a ping bounded by
// Config.TimeoutSeconds. ConnectMongo does the same for MongoDB and returns the
// *mongo.Database named by Config.Name.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the check command verify that the contests
// table carries every column the repository writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "contests", []string{"provider", "external_id"})
package database
