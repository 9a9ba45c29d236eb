package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veilsong/npccore/internal/personality"
	"github.com/veilsong/npccore/internal/types"
)

// personalityModel maps to the npc_personalities table. Trait maps and the
// emotional state are stored as JSONB.
type personalityModel struct {
	EntityID      int64 `gorm:"column:entity_id;primaryKey"`
	Archetype     string
	Innate        json.RawMessage `gorm:"type:jsonb"`
	Learned       json.RawMessage `gorm:"type:jsonb"`
	Emotion       json.RawMessage `gorm:"type:jsonb"`
	SchemaVersion int
	UpdatedAt     time.Time
}

func (personalityModel) TableName() string {
	return "npc_personalities"
}

// PersonalityRepo accesses persisted personality matrices.
type PersonalityRepo struct {
	db *gorm.DB
}

// NewPersonalityRepo returns a PersonalityRepo.
func NewPersonalityRepo(db *gorm.DB) *PersonalityRepo {
	return &PersonalityRepo{db: db}
}

// Save upserts an NPC's matrix and emotional state.
func (r *PersonalityRepo) Save(ctx context.Context, e types.Entity, archetype types.Archetype, m *personality.Matrix) error {
	innate, err := marshalJSON(m.Innate)
	if err != nil {
		return fmt.Errorf("failed to encode innate traits: %w", err)
	}
	learned, err := marshalJSON(m.Learned)
	if err != nil {
		return fmt.Errorf("failed to encode learned traits: %w", err)
	}
	emotion, err := marshalJSON(m.Emotion)
	if err != nil {
		return fmt.Errorf("failed to encode emotional state: %w", err)
	}
	record := personalityModel{
		EntityID:      int64(e),
		Archetype:     string(archetype),
		Innate:        innate,
		Learned:       learned,
		Emotion:       emotion,
		SchemaVersion: SchemaVersion,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert personality: %w", err)
	}
	return nil
}

// Load rebuilds an NPC's matrix; the bool reports whether a row existed.
func (r *PersonalityRepo) Load(ctx context.Context, e types.Entity) (*personality.Matrix, types.Archetype, bool, error) {
	var record personalityModel
	err := r.db.WithContext(ctx).First(&record, "entity_id = ?", int64(e)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("failed to load personality: %w", err)
	}

	m := personality.NewMatrix(nil)
	if err := unmarshalJSON(record.Innate, &m.Innate); err != nil {
		return nil, "", false, fmt.Errorf("failed to decode innate traits: %w", err)
	}
	if err := unmarshalJSON(record.Learned, &m.Learned); err != nil {
		return nil, "", false, fmt.Errorf("failed to decode learned traits: %w", err)
	}
	if err := unmarshalJSON(record.Emotion, m.Emotion); err != nil {
		return nil, "", false, fmt.Errorf("failed to decode emotional state: %w", err)
	}
	return m, types.Archetype(record.Archetype), true, nil
}
