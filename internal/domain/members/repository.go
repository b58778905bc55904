package members

import "context"

type Repository interface {
	Search(ctx context.Context, filter SearchFilter) ([]Member, error)
	GetMember(ctx context.Context, id int64) (*Member, error)
	GetParty(ctx context.Context, id int64) (*Party, error)
}
