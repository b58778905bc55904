package ingest

import (
	"context"
	"fmt"

	"parliament-interests/internal/db"
	ingestdomain "parliament-interests/internal/domain/ingest"
	interestsdomain "parliament-interests/internal/domain/interests"
	"parliament-interests/internal/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tabler interface {
	TableName() string
}

// reference is a nullable column that should point at an existing row.
type reference struct {
	table  string
	column string
	target string
}

func (r reference) name() string {
	return r.table + "." + r.column
}

var references = []reference{
	{table: "members", column: "party_id", target: "parties"},
	{table: "interests", column: "member_id", target: "members"},
	{table: "interests", column: "category_id", target: "interest_categories"},
	{table: "interests", column: "parent_id", target: "interests"},
	{table: "interest_fields", column: "interest_id", target: "interests"},
	{table: "monetary_value_fields", column: "interest_id", target: "interests"},
}

// GormRepository is the merge engine: it upserts mapped entities by primary
// key so repeated runs converge on the upstream state.
type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) EnsureSchema(ctx context.Context) error {
	return db.EnsureSchema(ctx, r.db)
}

// MergeBatch writes every present entity of the batch inside one
// transaction, in tuple order. Upserting an interest first clears its field
// and monetary rows so that fields dropped upstream do not linger.
func (r *GormRepository) MergeBatch(ctx context.Context, batch []ingestdomain.Entities) (map[string]int, error) {
	counts := make(map[string]int)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entities := range batch {
			for _, entity := range entities.Present() {
				table, err := upsert(tx, entity)
				if err != nil {
					return err
				}
				counts[table]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for table, count := range counts {
		metrics.RecordEntitiesUpserted(table, count)
	}
	return counts, nil
}

func upsert(tx *gorm.DB, entity any) (string, error) {
	model, ok := entity.(tabler)
	if !ok {
		return "", fmt.Errorf("merge: unsupported entity %T", entity)
	}
	table := model.TableName()

	if interest, ok := entity.(*interestsdomain.Interest); ok {
		if err := clearChildren(tx, interest.ID); err != nil {
			return table, err
		}
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(entity).Error
	if err != nil {
		return table, fmt.Errorf("upsert %s: %w", table, err)
	}
	return table, nil
}

func clearChildren(tx *gorm.DB, interestID int64) error {
	if err := tx.Where("interest_id = ?", interestID).Delete(&interestsdomain.InterestField{}).Error; err != nil {
		return fmt.Errorf("clear interest fields: %w", err)
	}
	if err := tx.Where("interest_id = ?", interestID).Delete(&interestsdomain.MonetaryValueField{}).Error; err != nil {
		return fmt.Errorf("clear monetary value: %w", err)
	}
	return nil
}

func (r *GormRepository) RecordCompletedRun(ctx context.Context, run ingestdomain.CompletedRun) error {
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("insert ingest run: %w", err)
	}
	return nil
}

// HasCompletedRun is false on a store whose schema was never created.
func (r *GormRepository) HasCompletedRun(ctx context.Context) (bool, error) {
	tx := r.db.WithContext(ctx)
	if !tx.Migrator().HasTable(&ingestdomain.CompletedRun{}) {
		return false, nil
	}

	var count int64
	if err := tx.Model(&ingestdomain.CompletedRun{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count ingest runs: %w", err)
	}
	return count > 0, nil
}

// DanglingReferences counts, per reference column, the non-null values that
// do not resolve to a stored row.
func (r *GormRepository) DanglingReferences(ctx context.Context) (map[string]int64, error) {
	result := make(map[string]int64, len(references))
	for _, ref := range references {
		query := fmt.Sprintf(`
			SELECT COUNT(1)
			FROM %[1]s AS child
			LEFT JOIN %[3]s AS target ON target.id = child.%[2]s
			WHERE child.%[2]s IS NOT NULL AND target.id IS NULL`,
			ref.table, ref.column, ref.target)

		var count int64
		if err := r.db.WithContext(ctx).Raw(query).Scan(&count).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", ref.name(), err)
		}
		result[ref.name()] = count
	}
	return result, nil
}
