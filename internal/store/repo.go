package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/i474232898/weather-journal/internal/weather"
)

var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("record not found")
)

// Open connects to the configured database. SQLite databases are switched to WAL mode.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	switch driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("enable wal: %w", err)
		}
		return db, nil
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// RecordRepo persists weather.Record values in the "records" table.
type RecordRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*RecordRepo, error) {
	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, err
	}
	return &RecordRepo{db: db}, nil
}

// Create inserts rec and fills in its id and timestamps.
func (r *RecordRepo) Create(ctx context.Context, rec *weather.Record) error {
	row := fromRecord(rec)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	*rec = row.toRecord()
	return nil
}

// List returns every record, most recently created first.
func (r *RecordRepo) List(ctx context.Context) ([]weather.Record, error) {
	var rows []recordRow
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]weather.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}
	return out, nil
}

func (r *RecordRepo) Get(ctx context.Context, id uint) (weather.Record, error) {
	var row recordRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.Record{}, ErrNotFound
	}
	if err != nil {
		return weather.Record{}, err
	}
	return row.toRecord(), nil
}

// Update replaces the place, range, units and series of an existing record
// and refreshes updated_at. created_at and source are left alone.
func (r *RecordRepo) Update(ctx context.Context, rec *weather.Record) error {
	row := fromRecord(rec)
	res := r.db.WithContext(ctx).Model(&recordRow{ID: rec.ID}).Updates(map[string]any{
		"query":      row.Query,
		"name":       row.Name,
		"lat":        row.Lat,
		"lon":        row.Lon,
		"start_date": row.StartDate,
		"end_date":   row.EndDate,
		"units":      row.Units,
		"temps_json": row.TempsJSON,
		"updated_at": r.db.NowFunc(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	saved, err := r.Get(ctx, rec.ID)
	if err != nil {
		return err
	}
	*rec = saved
	return nil
}

// Delete removes a record. A missing id is ErrNotFound, never a silent success.
func (r *RecordRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&recordRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (r *RecordRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Maintain runs housekeeping for the underlying engine.
func (r *RecordRepo) Maintain(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	switch db.Dialector.Name() {
	case "sqlite":
		if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
			return err
		}
		return db.Exec("PRAGMA optimize").Error
	case "postgres":
		return db.Exec("ANALYZE records").Error
	default:
		return nil
	}
}
