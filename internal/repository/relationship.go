package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veilsong/npccore/internal/relationship"
	"github.com/veilsong/npccore/internal/types"
)

// relationshipModel maps one directed edge to the npc_relationships table.
type relationshipModel struct {
	FromID int64 `gorm:"column:from_id;primaryKey"`
	ToID   int64 `gorm:"column:to_id;primaryKey"`

	Trust       float64
	Respect     float64
	Affection   float64
	Familiarity float64
	Tension     float64
	Type        string

	History          json.RawMessage `gorm:"type:jsonb"`
	LastInteraction  time.Time
	InteractionCount int
	SchemaVersion    int
	UpdatedAt        time.Time
}

func (relationshipModel) TableName() string {
	return "npc_relationships"
}

// RelationshipRepo accesses persisted relationship edges.
type RelationshipRepo struct {
	db *gorm.DB
}

// NewRelationshipRepo returns a RelationshipRepo.
func NewRelationshipRepo(db *gorm.DB) *RelationshipRepo {
	return &RelationshipRepo{db: db}
}

// SaveEdge upserts one directed edge.
func (r *RelationshipRepo) SaveEdge(ctx context.Context, from, to types.Entity, rel *relationship.Relationship) error {
	history, err := marshalJSON(rel.History)
	if err != nil {
		return fmt.Errorf("failed to encode edge history: %w", err)
	}
	record := relationshipModel{
		FromID:           int64(from),
		ToID:             int64(to),
		Trust:            rel.Trust,
		Respect:          rel.Respect,
		Affection:        rel.Affection,
		Familiarity:      rel.Familiarity,
		Tension:          rel.Tension,
		Type:             string(rel.Type),
		History:          history,
		LastInteraction:  rel.LastInteraction,
		InteractionCount: rel.InteractionCount,
		SchemaVersion:    SchemaVersion,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_id"}, {Name: "to_id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert relationship edge: %w", err)
	}
	return nil
}

// EdgeRecord is one loaded edge with its endpoints.
type EdgeRecord struct {
	From types.Entity
	To   types.Entity
	Rel  *relationship.Relationship
}

// LoadOutgoing returns every edge originating at an entity.
func (r *RelationshipRepo) LoadOutgoing(ctx context.Context, from types.Entity) ([]EdgeRecord, error) {
	var records []relationshipModel
	err := r.db.WithContext(ctx).
		Where("from_id = ?", int64(from)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load relationship edges: %w", err)
	}

	results := make([]EdgeRecord, 0, len(records))
	for _, record := range records {
		rel := &relationship.Relationship{
			Trust:            record.Trust,
			Respect:          record.Respect,
			Affection:        record.Affection,
			Familiarity:      record.Familiarity,
			Tension:          record.Tension,
			Type:             relationship.Type(record.Type),
			LastInteraction:  record.LastInteraction,
			InteractionCount: record.InteractionCount,
		}
		if err := unmarshalJSON(record.History, &rel.History); err != nil {
			return nil, fmt.Errorf("failed to decode edge history %d->%d: %w", record.FromID, record.ToID, err)
		}
		results = append(results, EdgeRecord{
			From: types.Entity(record.FromID),
			To:   types.Entity(record.ToID),
			Rel:  rel,
		})
	}
	return results, nil
}

// DeleteEdge removes one pruned edge.
func (r *RelationshipRepo) DeleteEdge(ctx context.Context, from, to types.Entity) error {
	err := r.db.WithContext(ctx).
		Where("from_id = ? AND to_id = ?", int64(from), int64(to)).
		Delete(&relationshipModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete relationship edge: %w", err)
	}
	return nil
}
