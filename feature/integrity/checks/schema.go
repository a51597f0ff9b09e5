package checks

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"contest-sync/core/database"
	"contest-sync/feature/contest/models"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Index names the contest store must carry.
const (
	UniqueIndex    = "idx_contest_provider_external"
	StartTimeIndex = "idx_contest_start_time"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Driver         string   `json:"driver"`
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	MissingIndexes []string `json:"missing_indexes"`
}

// CheckSQLSchema verifies the contests table using the GORM model as the source of truth.
func CheckSQLSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}

	table := models.Contest{}.TableName()
	report := &SchemaReport{
		Driver:         db.Dialector.Name(),
		Table:          table,
		Matched:        true,
		MissingColumns: []string{},
		MissingIndexes: []string{},
	}

	missing, err := database.MissingColumns(db, table, modelColumns(models.Contest{}))
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		report.MissingColumns = missing
		report.Matched = false
	}

	// Index drift is only meaningful once the table exists
	m := db.Migrator()
	if m.HasTable(table) && !m.HasIndex(&models.Contest{}, UniqueIndex) {
		report.MissingIndexes = append(report.MissingIndexes, UniqueIndex)
		report.Matched = false
	}

	return report, nil
}

// CheckMongoSchema verifies the indexes of the contests collection.
func CheckMongoSchema(ctx context.Context, coll *mongo.Collection) (*SchemaReport, error) {
	if coll == nil {
		return nil, errors.New("collection is nil")
	}

	specs, err := coll.Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s: %w", coll.Name(), err)
	}
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}

	report := &SchemaReport{
		Driver:         database.DriverMongoDB,
		Table:          coll.Name(),
		Matched:        true,
		MissingColumns: []string{},
		MissingIndexes: []string{},
	}
	for _, want := range []string{UniqueIndex, StartTimeIndex} {
		if !slices.Contains(names, want) {
			report.MissingIndexes = append(report.MissingIndexes, want)
			report.Matched = false
		}
	}
	return report, nil
}

// modelColumns lists the column names declared in the model's gorm tags.
func modelColumns(model any) []string {
	t := reflect.TypeOf(model)
	var cols []string
	for i := 0; i < t.NumField(); i++ {
		if col := parseGormColumn(t.Field(i).Tag.Get("gorm")); col != "" {
			cols = append(cols, col)
		}
	}
	return cols
}

// parseGormColumn extracts the column name from a GORM tag.
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}
