package interests

import (
	"context"
	"time"
)

type Repository interface {
	SearchTotals(ctx context.Context, filter SearchFilter) ([]MemberTotal, error)
	ListByMember(ctx context.Context, memberID int64, publishedAfter, publishedBefore *time.Time) ([]Interest, error)
	CategoriesByID(ctx context.Context, ids []int64) (map[int64]InterestCategory, error)
	FieldsByInterest(ctx context.Context, interestIDs []int64) (map[int64][]InterestField, error)
	MonetaryByInterest(ctx context.Context, interestIDs []int64) (map[int64]MonetaryValueField, error)
}
