package interests

import (
	"context"
	"sort"
	"strings"
	"time"

	"parliament-interests/internal/domain/members"
)

type MemberLookup interface {
	GetMember(ctx context.Context, id int64) (*members.Member, error)
}

type Service struct {
	repo        Repository
	members     MemberLookup
	defaultTake int
	maxTake     int
}

func NewService(repo Repository, memberLookup MemberLookup, defaultTake, maxTake int) *Service {
	if defaultTake <= 0 {
		defaultTake = 20
	}
	if maxTake < defaultTake {
		maxTake = defaultTake
	}
	return &Service{repo: repo, members: memberLookup, defaultTake: defaultTake, maxTake: maxTake}
}

// SearchTotals returns one row per matching member with the sum of their
// monetary interest values, highest total first.
func (s *Service) SearchTotals(ctx context.Context, filter SearchFilter) ([]MemberTotal, error) {
	filter.MemberName = strings.TrimSpace(filter.MemberName)
	filter.Party = strings.TrimSpace(filter.Party)
	if filter.House != nil && !members.ValidHouse(*filter.House) {
		filter.House = nil
	}
	filter.Skip, filter.Take = members.NormalizePaging(filter.Skip, filter.Take, s.defaultTake, s.maxTake)

	rows, err := s.repo.SearchTotals(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []MemberTotal{}
	}
	return rows, nil
}

// MemberInterests assembles a member's top-level and child interests with
// their category, generic fields and monetary value.
func (s *Service) MemberInterests(ctx context.Context, memberID int64, publishedAfter, publishedBefore *time.Time) (*MemberInterests, error) {
	member, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByMember(ctx, memberID, publishedAfter, publishedBefore)
	if err != nil {
		return nil, err
	}

	interestIDs := make([]int64, 0, len(items))
	categoryIDs := make([]int64, 0, len(items))
	seenCategory := make(map[int64]struct{}, len(items))
	for _, item := range items {
		interestIDs = append(interestIDs, item.ID)
		if item.CategoryID == nil {
			continue
		}
		if _, ok := seenCategory[*item.CategoryID]; ok {
			continue
		}
		seenCategory[*item.CategoryID] = struct{}{}
		categoryIDs = append(categoryIDs, *item.CategoryID)
	}

	categories, err := s.repo.CategoriesByID(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	fields, err := s.repo.FieldsByInterest(ctx, interestIDs)
	if err != nil {
		return nil, err
	}
	monetary, err := s.repo.MonetaryByInterest(ctx, interestIDs)
	if err != nil {
		return nil, err
	}

	result := &MemberInterests{
		Member:    *member,
		Interests: make([]InterestDetail, 0, len(items)),
	}
	for _, item := range items {
		detail := InterestDetail{Interest: item, Fields: fields[item.ID]}
		if detail.Fields == nil {
			detail.Fields = []InterestField{}
		}
		if item.CategoryID != nil {
			if category, ok := categories[*item.CategoryID]; ok {
				detail.Category = &category
			}
		}
		if value, ok := monetary[item.ID]; ok {
			detail.MonetaryValueField = &value
			if value.Value != nil {
				result.TotalInterestsValue += *value.Value
			}
		}
		result.Interests = append(result.Interests, detail)
	}

	sort.SliceStable(result.Interests, func(i, j int) bool {
		return publishedAt(result.Interests[i]).After(publishedAt(result.Interests[j]))
	})

	return result, nil
}

func publishedAt(detail InterestDetail) time.Time {
	if detail.PublishedDate == nil {
		return time.Time{}
	}
	return *detail.PublishedDate
}
