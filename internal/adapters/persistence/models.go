package persistence

import (
	"time"
)

// TurnRecordModel represents the turn_records table
type TurnRecordModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	SessionID    string    `gorm:"column:session_id;not null;index:idx_turn_records_session_turn,priority:1"`
	TurnNumber   int       `gorm:"column:turn_number;not null;index:idx_turn_records_session_turn,priority:2"`
	Direction    string    `gorm:"column:direction;not null"`
	Timestamp    time.Time `gorm:"column:timestamp;not null;index"`
	CellsClaimed int       `gorm:"column:cells_claimed;not null"`
	Territory    int       `gorm:"column:territory;not null"`
	Mined        string    `gorm:"column:mined;type:text"`   // JSON object as text
	Crafted      string    `gorm:"column:crafted;type:text"` // JSON object as text
	CraftedUnits int       `gorm:"column:crafted_units;not null;default:0"`
}

func (TurnRecordModel) TableName() string {
	return "turn_records"
}

// AllModels lists every table for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&TurnRecordModel{},
	}
}
