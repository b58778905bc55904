package interests

import (
	"context"
	"strings"
	"time"

	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

type memberTotalRow struct {
	membersdomain.Member
	TotalInterestsValue float64
}

// SearchTotals aggregates monetary values per member. Members without any
// monetary value still appear with a total of zero unless a published-date
// filter excludes every one of their interests.
func (r *GormRepository) SearchTotals(ctx context.Context, filter interestsdomain.SearchFilter) ([]interestsdomain.MemberTotal, error) {
	query := r.db.WithContext(ctx).
		Table("members").
		Select("members.*, COALESCE(SUM(monetary_value_fields.value), 0.0) AS total_interests_value").
		Joins("LEFT JOIN parties ON parties.id = members.party_id").
		Joins("LEFT JOIN interests ON interests.member_id = members.id").
		Joins("LEFT JOIN monetary_value_fields ON monetary_value_fields.interest_id = interests.id")

	if name := strings.TrimSpace(filter.MemberName); name != "" {
		query = query.Where("LOWER(members.name_display_as) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if party := strings.TrimSpace(filter.Party); party != "" {
		query = query.Where("LOWER(parties.name) LIKE ?", "%"+strings.ToLower(party)+"%")
	}
	if filter.House != nil {
		query = query.Where("members.house = ?", *filter.House)
	}
	if filter.PublishedBefore != nil {
		query = query.Where("interests.published_date <= ?", *filter.PublishedBefore)
	}
	if filter.PublishedAfter != nil {
		query = query.Where("interests.published_date >= ?", *filter.PublishedAfter)
	}

	query = query.Group("members.id").Order("total_interests_value desc, members.id asc")
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Take > 0 {
		query = query.Limit(filter.Take)
	}

	var rows []memberTotalRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]interestsdomain.MemberTotal, 0, len(rows))
	for _, row := range rows {
		result = append(result, interestsdomain.MemberTotal{
			Member:              row.Member,
			TotalInterestsValue: row.TotalInterestsValue,
		})
	}
	return result, nil
}

func (r *GormRepository) ListByMember(ctx context.Context, memberID int64, publishedAfter, publishedBefore *time.Time) ([]interestsdomain.Interest, error) {
	query := r.db.WithContext(ctx).Where("member_id = ?", memberID)
	if publishedAfter != nil {
		query = query.Where("published_date >= ?", *publishedAfter)
	}
	if publishedBefore != nil {
		query = query.Where("published_date <= ?", *publishedBefore)
	}

	var items []interestsdomain.Interest
	if err := query.Order("published_date desc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) CategoriesByID(ctx context.Context, ids []int64) (map[int64]interestsdomain.InterestCategory, error) {
	result := make(map[int64]interestsdomain.InterestCategory, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var categories []interestsdomain.InterestCategory
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, category := range categories {
		result[category.ID] = category
	}
	return result, nil
}

func (r *GormRepository) FieldsByInterest(ctx context.Context, interestIDs []int64) (map[int64][]interestsdomain.InterestField, error) {
	result := make(map[int64][]interestsdomain.InterestField, len(interestIDs))
	if len(interestIDs) == 0 {
		return result, nil
	}

	var fields []interestsdomain.InterestField
	if err := r.db.WithContext(ctx).
		Where("interest_id IN ?", interestIDs).
		Order("interest_id asc, name asc, id asc").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	for _, field := range fields {
		result[field.InterestID] = append(result[field.InterestID], field)
	}
	return result, nil
}

func (r *GormRepository) MonetaryByInterest(ctx context.Context, interestIDs []int64) (map[int64]interestsdomain.MonetaryValueField, error) {
	result := make(map[int64]interestsdomain.MonetaryValueField, len(interestIDs))
	if len(interestIDs) == 0 {
		return result, nil
	}

	var values []interestsdomain.MonetaryValueField
	if err := r.db.WithContext(ctx).Where("interest_id IN ?", interestIDs).Find(&values).Error; err != nil {
		return nil, err
	}
	for _, value := range values {
		result[value.InterestID] = value
	}
	return result, nil
}
