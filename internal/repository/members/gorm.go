package members

import (
	"context"
	"errors"
	"strings"

	membersdomain "parliament-interests/internal/domain/members"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Search(ctx context.Context, filter membersdomain.SearchFilter) ([]membersdomain.Member, error) {
	query := r.db.WithContext(ctx).
		Model(&membersdomain.Member{}).
		Select("members.*").
		Joins("LEFT JOIN parties ON parties.id = members.party_id")

	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("LOWER(members.name_display_as) LIKE ?", containsPattern(name))
	}
	if party := strings.TrimSpace(filter.Party); party != "" {
		query = query.Where("LOWER(parties.name) LIKE ?", containsPattern(party))
	}
	if filter.House != nil {
		query = query.Where("members.house = ?", *filter.House)
	}
	if filter.MembershipStartedSince != nil {
		query = query.Where("members.membership_start_date >= ?", *filter.MembershipStartedSince)
	}
	if filter.MembershipEndedSince != nil {
		query = query.Where("members.membership_end_date <= ?", *filter.MembershipEndedSince)
	}

	query = query.Order("members.id asc")
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Take > 0 {
		query = query.Limit(filter.Take)
	}

	var result []membersdomain.Member
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *GormRepository) GetMember(ctx context.Context, id int64) (*membersdomain.Member, error) {
	var member membersdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *GormRepository) GetParty(ctx context.Context, id int64) (*membersdomain.Party, error) {
	var party membersdomain.Party
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&party).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrPartyNotFound
		}
		return nil, err
	}
	return &party, nil
}

// containsPattern pairs with LOWER(column) LIKE ? for case-insensitive
// substring matches.
func containsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
