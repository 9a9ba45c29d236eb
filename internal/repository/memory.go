package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veilsong/npccore/internal/memory"
	"github.com/veilsong/npccore/internal/types"
)

// memoryModel maps to the npc_memories table. The full event is stored as
// JSONB; indexed columns are denormalized for retrieval filters.
type memoryModel struct {
	ID          uuid.UUID       `gorm:"primaryKey"`
	Owner       int64           `gorm:"column:owner_id;index"`
	Kind        string          `gorm:"index"`
	Event       json.RawMessage `gorm:"type:jsonb"`
	Importance  float64
	RecallCount int
	DecayRate   float64
	// Embedding stores the description vector for similarity search.
	Embedding     *pgvector.Vector `gorm:"type:vector"`
	SchemaVersion int
	CreatedAt     time.Time
}

func (memoryModel) TableName() string {
	return "npc_memories"
}

// RecalledMemory is one similarity-search hit.
type RecalledMemory struct {
	ID          uuid.UUID
	Description string
	Kind        string
	Importance  float64
	Similarity  float64
	CreatedAt   time.Time
}

// MemoryRepo accesses persisted long-term memories.
type MemoryRepo struct {
	db *gorm.DB
}

// NewMemoryRepo returns a MemoryRepo.
func NewMemoryRepo(db *gorm.DB) *MemoryRepo {
	return &MemoryRepo{db: db}
}

// Save upserts one memory for an owner; embedding may be nil when the
// embedder is unavailable.
func (r *MemoryRepo) Save(ctx context.Context, owner types.Entity, mem *memory.Memory, embedding []float32) error {
	raw, err := marshalJSON(mem.Event)
	if err != nil {
		return fmt.Errorf("failed to encode memory event: %w", err)
	}
	var vector *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vector = &v
	}
	record := memoryModel{
		ID:            mem.ID,
		Owner:         int64(owner),
		Kind:          string(mem.Event.Payload.Kind),
		Event:         raw,
		Importance:    mem.Importance,
		RecallCount:   mem.RecallCount,
		DecayRate:     mem.DecayRate,
		Embedding:     vector,
		SchemaVersion: SchemaVersion,
		CreatedAt:     mem.CreatedAt,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert memory: %w", err)
	}
	return nil
}

// LoadForOwner returns an owner's persisted memories, oldest first, for
// rebuilding the in-process store on spawn.
func (r *MemoryRepo) LoadForOwner(ctx context.Context, owner types.Entity) ([]*memory.Memory, error) {
	var records []memoryModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", int64(owner)).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}

	results := make([]*memory.Memory, 0, len(records))
	for _, record := range records {
		var ev memory.Event
		if err := unmarshalJSON(record.Event, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode memory %s: %w", record.ID, err)
		}
		results = append(results, &memory.Memory{
			ID:          record.ID,
			Event:       ev,
			Importance:  record.Importance,
			CreatedAt:   record.CreatedAt,
			RecallCount: record.RecallCount,
			DecayRate:   record.DecayRate,
		})
	}
	return results, nil
}

// Delete removes forgotten memories by id.
func (r *MemoryRepo) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&memoryModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete memories: %w", err)
	}
	return nil
}

// SearchSimilar filters by cosine similarity and re-ranks with importance,
// so a slightly less similar but pivotal memory still surfaces first.
func (r *MemoryRepo) SearchSimilar(ctx context.Context, owner types.Entity, embedding []float32, topK int, threshold float64) ([]RecalledMemory, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, event->>'description' AS description, kind, importance, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM npc_memories
		WHERE owner_id = $2 AND embedding IS NOT NULL AND 1 - (embedding <=> $1) > $3
		ORDER BY (0.8 * (1 - (embedding <=> $1)) + 0.2 * importance) DESC
		LIMIT $4`

	var results []RecalledMemory
	err := r.db.WithContext(ctx).
		Raw(query, pgvector.NewVector(embedding), int64(owner), threshold, topK).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search similar memories: %w", err)
	}
	return results, nil
}
