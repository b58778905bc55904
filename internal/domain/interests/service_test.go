package interests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parliament-interests/internal/domain/members"
)

type fakeRepo struct {
	totals      []MemberTotal
	items       []Interest
	categories  map[int64]InterestCategory
	fields      map[int64][]InterestField
	monetary    map[int64]MonetaryValueField
	lastFilter  SearchFilter
	categoryIDs []int64
}

func (r *fakeRepo) SearchTotals(_ context.Context, filter SearchFilter) ([]MemberTotal, error) {
	r.lastFilter = filter
	return r.totals, nil
}

func (r *fakeRepo) ListByMember(context.Context, int64, *time.Time, *time.Time) ([]Interest, error) {
	return r.items, nil
}

func (r *fakeRepo) CategoriesByID(_ context.Context, ids []int64) (map[int64]InterestCategory, error) {
	r.categoryIDs = ids
	return r.categories, nil
}

func (r *fakeRepo) FieldsByInterest(context.Context, []int64) (map[int64][]InterestField, error) {
	return r.fields, nil
}

func (r *fakeRepo) MonetaryByInterest(context.Context, []int64) (map[int64]MonetaryValueField, error) {
	return r.monetary, nil
}

type fakeMembers struct{}

func (fakeMembers) GetMember(_ context.Context, id int64) (*members.Member, error) {
	if id != 172 {
		return nil, members.ErrMemberNotFound
	}
	return &members.Member{ID: 172}, nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestSearchTotalsNormalizesFilter(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo, fakeMembers{}, 20, 100)

	rows, err := service.SearchTotals(context.Background(), SearchFilter{MemberName: " abbott ", House: ptr(0), Take: 1000})
	require.NoError(t, err)

	assert.NotNil(t, rows)
	assert.Equal(t, "abbott", repo.lastFilter.MemberName)
	assert.Nil(t, repo.lastFilter.House)
	assert.Equal(t, 100, repo.lastFilter.Take)
}

func TestMemberInterests(t *testing.T) {
	day := func(d int) *time.Time { return ptr(time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)) }
	repo := &fakeRepo{
		items: []Interest{
			{ID: 1, CategoryID: ptr(int64(4)), PublishedDate: day(1)},
			{ID: 2, CategoryID: ptr(int64(4)), PublishedDate: day(14)},
			{ID: 3, ParentID: ptr(int64(1))},
		},
		categories: map[int64]InterestCategory{4: {ID: 4, Number: ptr("3")}},
		fields: map[int64][]InterestField{
			2: {{ID: "f", InterestID: 2, Name: ptr("PaymentType"), Value: ptr("In kind")}},
		},
		monetary: map[int64]MonetaryValueField{
			1: {ID: "m1", InterestID: 1, Value: ptr(100.5)},
			2: {ID: "m2", InterestID: 2, Value: ptr(1396.0)},
			3: {ID: "m3", InterestID: 3},
		},
	}
	service := NewService(repo, fakeMembers{}, 20, 100)

	result, err := service.MemberInterests(context.Background(), 172, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(172), result.Member.ID)
	assert.InDelta(t, 1496.5, result.TotalInterestsValue, 0.001)
	assert.Equal(t, []int64{4}, repo.categoryIDs)

	require.Len(t, result.Interests, 3)
	assert.Equal(t, int64(2), result.Interests[0].ID)
	assert.Equal(t, int64(1), result.Interests[1].ID)
	assert.Equal(t, int64(3), result.Interests[2].ID)

	assert.Equal(t, "3", *result.Interests[0].Category.Number)
	assert.Len(t, result.Interests[0].Fields, 1)
	assert.NotNil(t, result.Interests[1].Fields)
	assert.Nil(t, result.Interests[2].Category)
	assert.NotNil(t, result.Interests[2].MonetaryValueField)
}

func TestMemberInterestsUnknownMember(t *testing.T) {
	service := NewService(&fakeRepo{}, fakeMembers{}, 20, 100)

	_, err := service.MemberInterests(context.Background(), 1, nil, nil)
	assert.ErrorIs(t, err, members.ErrMemberNotFound)
}
