package db

import (
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// allModels is the full schema, in migration order.
var allModels = []interface{}{
	&Engine{}, &BaseContent{}, &AddonContent{}, &Map{}, &Editor{},
	&Profile{}, &Queue{}, &QueueItem{}, &AppSettings{}, &PlaySettings{},
}

// InitDatabase initializes the SQLite database connection and migrates models.
func InitDatabase(dbPath string) {
	var err error

	DB, err = Open(dbPath)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
}

// Open opens (or creates) a database at the given path and migrates the
// schema. Use ":memory:" for tests.
func Open(dbPath string) (*gorm.DB, error) {
	// Configure GORM logger
	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard log writer (os.Stdout)
		gormlogger.Config{
			SlowThreshold:             time.Second,     // Slow SQL threshold
			LogLevel:                  gormlogger.Warn, // Log level (Warn, Error, Info)
			IgnoreRecordNotFoundError: true,            // Ignore ErrRecordNotFound error
			ParameterizedQueries:      false,           // Log SQL queries with params
			Colorful:                  true,            // Enable color
		},
	)

	gdb, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger, // Use the configured logger
	})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(allModels...); err != nil {
		return nil, err
	}

	return gdb, nil
}
