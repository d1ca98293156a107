// Package logger is a GORM-backed audit logger. Auth events (registration,
// login, logout) are written to the logs table so they survive restarts.
package logger

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

const LogsTableName = "logs"

// AuthLog represents an audit log entry in the database
type AuthLog struct {
	ID        uint           `gorm:"primaryKey"`
	Timestamp time.Time      `gorm:"index"`
	Level     LogLevel       `gorm:"index"`
	Event     string         `gorm:"index"`
	Message   string
	Fields    datatypes.JSON
}

// TableName overrides the table name used by AuthLog
func (AuthLog) TableName() string {
	return LogsTableName
}

// Logger writes audit entries through a GORM handle
type Logger struct {
	db *gorm.DB
}

// New creates a Logger and ensures the logs table exists
func New(db *gorm.DB) (*Logger, error) {
	if err := db.AutoMigrate(&AuthLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate AuthLog: %v", err)
	}
	return &Logger{db: db}, nil
}

func (l *Logger) log(level LogLevel, event, message string, fields map[string]interface{}) error {
	var fieldsJSON datatypes.JSON
	if len(fields) > 0 {
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields: %v", err)
		}
		fieldsJSON = datatypes.JSON(data)
	}

	entry := AuthLog{
		Timestamp: time.Now(),
		Level:     level,
		Event:     event,
		Message:   message,
		Fields:    fieldsJSON,
	}

	if err := l.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to insert log entry: %v", err)
	}
	return nil
}

// Info logs an info-level audit event
func (l *Logger) Info(event, message string, fields map[string]interface{}) error {
	return l.log(INFO, event, message, fields)
}

// Warn logs a warning-level audit event
func (l *Logger) Warn(event, message string, fields map[string]interface{}) error {
	return l.log(WARN, event, message, fields)
}

// Error logs an error-level audit event
func (l *Logger) Error(event, message string, fields map[string]interface{}) error {
	return l.log(ERROR, event, message, fields)
}
