package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// GormTurnRecordRepository implements TurnRecordRepository using GORM
type GormTurnRecordRepository struct {
	db *gorm.DB
}

// NewGormTurnRecordRepository creates a new GORM turn record repository
func NewGormTurnRecordRepository(db *gorm.DB) *GormTurnRecordRepository {
	return &GormTurnRecordRepository{db: db}
}

// Create persists a new turn record
func (r *GormTurnRecordRepository) Create(ctx context.Context, record *ledger.TurnRecord) error {
	model, err := r.recordToModel(record)
	if err != nil {
		return fmt.Errorf("failed to convert turn record to model: %w", err)
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to create turn record: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a turn record by its ID
func (r *GormTurnRecordRepository) FindByID(ctx context.Context, id ledger.TurnRecordID, sessionID shared.SessionID) (*ledger.TurnRecord, error) {
	var model TurnRecordModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", id.String(), sessionID.String()).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &ledger.ErrTurnRecordNotFound{
				ID:        id.String(),
				SessionID: sessionID.String(),
			}
		}
		return nil, fmt.Errorf("failed to find turn record: %w", result.Error)
	}

	return r.modelToRecord(&model)
}

// FindBySession retrieves records for a session with optional filtering
func (r *GormTurnRecordRepository) FindBySession(ctx context.Context, sessionID shared.SessionID, opts ledger.QueryOptions) ([]*ledger.TurnRecord, error) {
	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID.String())
	query = r.applyFilters(query, opts)

	orderBy := "turn_number ASC"
	if opts.OrderBy != "" {
		orderBy = opts.OrderBy
	}
	query = query.Order(orderBy)

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []TurnRecordModel
	result := query.Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find turn records: %w", result.Error)
	}

	records := make([]*ledger.TurnRecord, len(models))
	for i := range models {
		rec, err := r.modelToRecord(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert turn record model: %w", err)
		}
		records[i] = rec
	}

	return records, nil
}

// CountBySession returns the count of records matching the criteria, ignoring pagination
func (r *GormTurnRecordRepository) CountBySession(ctx context.Context, sessionID shared.SessionID, opts ledger.QueryOptions) (int, error) {
	query := r.db.WithContext(ctx).Model(&TurnRecordModel{}).Where("session_id = ?", sessionID.String())
	query = r.applyFilters(query, opts)

	var count int64
	result := query.Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count turn records: %w", result.Error)
	}

	return int(count), nil
}

// applyFilters applies query options to a GORM query
func (r *GormTurnRecordRepository) applyFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.StartDate != nil {
		query = query.Where("timestamp >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("timestamp <= ?", *opts.EndDate)
	}
	if opts.Direction != nil {
		query = query.Where("direction = ?", *opts.Direction)
	}
	if opts.CraftedOnly {
		query = query.Where("crafted_units > 0")
	}
	return query
}

// modelToRecord converts database model to domain entity
func (r *GormTurnRecordRepository) modelToRecord(model *TurnRecordModel) (*ledger.TurnRecord, error) {
	id, err := ledger.NewTurnRecordIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid turn record ID in database: %w", err)
	}

	sessionID, err := shared.ParseSessionID(model.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID in database: %w", err)
	}

	mined, err := decodeCounts(model.Mined)
	if err != nil {
		return nil, fmt.Errorf("invalid mined counts in database: %w", err)
	}
	crafted, err := decodeCounts(model.Crafted)
	if err != nil {
		return nil, fmt.Errorf("invalid crafted counts in database: %w", err)
	}

	return ledger.ReconstructTurnRecord(
		id,
		sessionID,
		model.TurnNumber,
		model.Direction,
		model.Timestamp,
		model.CellsClaimed,
		model.Territory,
		mined,
		crafted,
	), nil
}

// recordToModel converts domain entity to database model
func (r *GormTurnRecordRepository) recordToModel(rec *ledger.TurnRecord) (*TurnRecordModel, error) {
	mined, err := json.Marshal(rec.Mined())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mined counts: %w", err)
	}
	crafted := rec.Crafted()
	craftedJSON, err := json.Marshal(crafted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal crafted counts: %w", err)
	}
	units := 0
	for _, n := range crafted {
		units += n
	}

	return &TurnRecordModel{
		ID:           rec.ID().String(),
		SessionID:    rec.SessionID().String(),
		TurnNumber:   rec.TurnNumber(),
		Direction:    rec.Direction(),
		Timestamp:    rec.Timestamp(),
		CellsClaimed: rec.CellsClaimed(),
		Territory:    rec.Territory(),
		Mined:        string(mined),
		Crafted:      string(craftedJSON),
		CraftedUnits: units,
	}, nil
}

func decodeCounts(raw string) (map[string]int, error) {
	counts := map[string]int{}
	if raw == "" {
		return counts, nil
	}
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
