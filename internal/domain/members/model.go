package members

import "time"

const (
	HouseCommons = 1
	HouseLords   = 2
)

type Party struct {
	ID                 int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name               *string `json:"name"`
	Abbreviation       *string `json:"abbreviation"`
	BackgroundColour   *string `json:"background_colour"`
	ForegroundColour   *string `json:"foreground_colour"`
	IsIndependentParty *bool   `json:"is_independent_party"`
}

func (Party) TableName() string {
	return "parties"
}

// Member flattens the member's latest house membership and status into one row.
type Member struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	NameListAs          *string    `json:"name_list_as"`
	NameDisplayAs       *string    `gorm:"index" json:"name_display_as"`
	NameFullTitle       *string    `json:"name_full_title"`
	NameAddressAs       *string    `json:"name_address_as"`
	Gender              *string    `json:"gender"`
	ThumbnailURL        *string    `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	PartyID             *int64     `gorm:"index" json:"party_id"`
	House               *int       `gorm:"index" json:"house"`
	MembershipFrom      *string    `json:"membership_from"`
	MembershipFromID    *int64     `json:"membership_from_id"`
	MembershipStartDate *time.Time `json:"membership_start_date"`
	MembershipEndDate   *time.Time `json:"membership_end_date"`
	MembershipEndReason *string    `json:"membership_end_reason"`
	StatusIsActive      *bool      `json:"status_is_active"`
	StatusStartDate     *time.Time `json:"status_start_date"`
}

func (Member) TableName() string {
	return "members"
}

type SearchFilter struct {
	Name                   string
	Party                  string
	House                  *int
	MembershipStartedSince *time.Time
	MembershipEndedSince   *time.Time
	Skip                   int
	Take                   int
}
