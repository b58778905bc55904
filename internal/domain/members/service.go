package members

import (
	"context"
	"errors"
	"strings"
)

const (
	defaultTake = 20
	maxTake     = 100
)

type Service struct {
	repo        Repository
	defaultTake int
	maxTake     int
}

type Option func(*Service)

func WithPaging(defaultTake, maxTake int) Option {
	return func(s *Service) {
		if defaultTake > 0 {
			s.defaultTake = defaultTake
		}
		if maxTake >= s.defaultTake {
			s.maxTake = maxTake
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, defaultTake: defaultTake, maxTake: maxTake}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search never fails on an empty match; it returns an empty slice instead.
func (s *Service) Search(ctx context.Context, filter SearchFilter) ([]Member, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Party = strings.TrimSpace(filter.Party)
	if filter.House != nil && !ValidHouse(*filter.House) {
		filter.House = nil
	}
	filter.Skip, filter.Take = NormalizePaging(filter.Skip, filter.Take, s.defaultTake, s.maxTake)

	result, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []Member{}
	}
	return result, nil
}

func (s *Service) GetMember(ctx context.Context, id int64) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

// GetParty returns nil without error when the party is unknown.
func (s *Service) GetParty(ctx context.Context, id int64) (*Party, error) {
	party, err := s.repo.GetParty(ctx, id)
	if errors.Is(err, ErrPartyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return party, nil
}

func ValidHouse(house int) bool {
	return house == HouseCommons || house == HouseLords
}

func NormalizePaging(skip, take, fallback, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = fallback
	}
	if limit > 0 && take > limit {
		take = limit
	}
	return skip, take
}
