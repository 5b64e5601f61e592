package implementation

import (
	"context"

	"policy-chat-be/internal/entity"
	"policy-chat-be/internal/mapper"
	"policy-chat-be/internal/model"
	"policy-chat-be/internal/repository/contract"
	"policy-chat-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PolicyChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyChunkMapper
}

func NewPolicyChunkRepository(db *gorm.DB) contract.PolicyChunkRepository {
	return &PolicyChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyChunkMapper(),
	}
}

func (r *PolicyChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.PolicyChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*entity.PolicyChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.PolicyChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PolicyChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error) {
	var models []*model.PolicyChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PolicyChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PolicyChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PolicyChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore runs a cosine similarity search over the chunk index.
// pgvector's <=> operator is cosine distance, so similarity = 1 - distance.
func (r *PolicyChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredPolicyChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.PolicyChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("policy_chunks").
		Select("policy_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("policy_chunks.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPolicyChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPolicyChunk{
			Chunk:      r.mapper.ToEntity(&res.PolicyChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
