package members

import "errors"

var (
	ErrPartyNotFound  = errors.New("party not found")
	ErrMemberNotFound = errors.New("member not found")
)
