package upstream

import "parliament-interests/pkg/logger"

const (
	SourceMembers   = "members"
	SourceInterests = "interests"

	MembersSearchPath = "/Members/Search"
	InterestsPath     = "/Interests"
)

// ActiveMembers pages through currently serving members of both houses.
func ActiveMembers(client Client, pageSize int, log logger.Logger) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return NewPaginator(client, MembersSearchPath,
		Params{"IsCurrentMember": true, "take": pageSize},
		WithPageSize(pageSize),
		WithSource(SourceMembers),
		WithLogger(log, "active members"),
	)
}

// Interests pages through registered interests. Child interests are not
// expanded inline; they arrive as their own records carrying a parent id.
func Interests(client Client, pageSize int, log logger.Logger) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return NewPaginator(client, InterestsPath,
		Params{"ExpandChildInterests": false, "take": pageSize},
		WithPageSize(pageSize),
		WithSource(SourceInterests),
		WithLogger(log, "interests"),
	)
}
