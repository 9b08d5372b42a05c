// Package gormstore persists position lifecycle state with GORM + SQLite.
package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	storemodel "parlay/internal/store/model"
	"parlay/internal/types"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormStore implements store.PositionStore on SQLite.
type GormStore struct {
	db *gorm.DB
}

// New opens the database at path and migrates the schema.
func New(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: db path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&storemodel.PositionModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: allow a little parallelism for HTTP reads while the
	// monitor writes, keep lock contention low.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &GormStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SavePosition upserts the row keyed by position id.
func (s *GormStore) SavePosition(ctx context.Context, pos types.Position) error {
	if pos.ID == "" {
		return fmt.Errorf("gorm store: position missing id")
	}
	row, err := toModel(pos)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "position_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

// ListOpen returns positions that were open at last save.
func (s *GormStore) ListOpen(ctx context.Context) ([]types.Position, error) {
	var rows []storemodel.PositionModel
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{string(types.PositionActive), string(types.PositionPartiallyClosed)}).
		Order("entry_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]types.Position, 0, len(rows))
	for _, row := range rows {
		pos, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, nil
}

func toModel(pos types.Position) (storemodel.PositionModel, error) {
	raw, err := json.Marshal(pos)
	if err != nil {
		return storemodel.PositionModel{}, err
	}
	row := storemodel.PositionModel{
		PositionID:       pos.ID,
		RecommendationID: pos.RecommendationID,
		Ticker:           pos.Ticker,
		Side:             pos.Side.String(),
		Contracts:        pos.Contracts,
		Remaining:        pos.Remaining,
		EntryPrice:       pos.EntryPrice,
		TargetLow:        pos.TargetExit.Low,
		TargetHigh:       pos.TargetExit.High,
		StopLoss:         pos.StopLoss,
		Status:           string(pos.Status),
		VenueOrderID:     pos.VenueOrderID,
		ExitPrice:        pos.ExitPrice,
		ExitReason:       pos.ExitReason,
		ProfitCents:      pos.ProfitCents,
		RawJSON:          datatypes.JSON(raw),
		EntryUnix:        pos.EntryTime.Unix(),
		UpdatedAtUnix:    time.Now().Unix(),
	}
	if !pos.ExitTime.IsZero() {
		row.ExitUnix = pos.ExitTime.Unix()
	}
	return row, nil
}

func fromModel(row storemodel.PositionModel) (types.Position, error) {
	var pos types.Position
	if len(row.RawJSON) > 0 {
		if err := json.Unmarshal(row.RawJSON, &pos); err != nil {
			return types.Position{}, fmt.Errorf("corrupt position row %s: %w", row.PositionID, err)
		}
		return pos, nil
	}
	side, err := types.ParseSide(row.Side)
	if err != nil {
		return types.Position{}, err
	}
	return types.Position{
		ID:               row.PositionID,
		RecommendationID: row.RecommendationID,
		Ticker:           row.Ticker,
		Side:             side,
		Contracts:        row.Contracts,
		Remaining:        row.Remaining,
		EntryPrice:       row.EntryPrice,
		EntryTime:        time.Unix(row.EntryUnix, 0),
		TargetExit:       types.TargetRange{Low: row.TargetLow, High: row.TargetHigh},
		StopLoss:         row.StopLoss,
		Status:           types.PositionStatus(row.Status),
		VenueOrderID:     row.VenueOrderID,
	}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
