// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// from the application's configuration. Scenes are persisted through the
// returned *gorm.DB.
//
// # Connect
//
// Connect establishes a connection, applies pool settings and pings the
// server. The sqlite driver is used for local runs and tests.
//
// # Schema Inspection
//
// GetTableColumns reads a table's column definitions. The integrity feature
// uses it to verify the scene tables.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "scene_elements")
package database
