package journal

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Action classifies a journal entry.
const (
	ActionExport       = "export"
	ActionStatusUpdate = "status_update"
	ActionDriftUpdate  = "drift_update"
)

// Entry is one audit record of a ledger mutation.
type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	Store     string `gorm:"size:64;index"`
	OrderRef  string `gorm:"size:64;index"`
	Action    string `gorm:"size:32"`
	Detail    string `gorm:"size:255"`
	CreatedAt time.Time
}

// TableName sets the journal table name.
func (Entry) TableName() string {
	return "export_journal"
}

// Journal records ledger mutations for audit. A Journal built from a nil
// DB is a no-op, so callers never branch on whether auditing is enabled.
type Journal struct {
	db *gorm.DB
}

// New wraps a database connection. db may be nil.
func New(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Record writes one audit entry. Failures are returned for logging but
// must never abort the mutation they describe.
func (j *Journal) Record(ctx context.Context, store, orderRef, action, detail string) error {
	if j == nil || j.db == nil {
		return nil
	}
	entry := Entry{
		Store:    store,
		OrderRef: orderRef,
		Action:   action,
		Detail:   detail,
	}
	if err := j.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

// Connect establishes the journal database connection and migrates its
// schema. The journal is optional, so callers should handle the error
// gracefully and continue without auditing.
func Connect(cfg Config) (*gorm.DB, error) {
	// Special characters in the password must be URL encoded for the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	// Suppress GORM logging; the journal is reported through the main logger.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}

	return db, nil
}
