package interests

import (
	"time"

	"parliament-interests/internal/domain/members"
)

type InterestCategory struct {
	ID     int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Number *string `json:"number"`
	Name   *string `json:"name"`
}

func (InterestCategory) TableName() string {
	return "interest_categories"
}

// Interest rows form a tree through ParentID. Children are stored as their
// own rows; there is no in-memory parent/child object graph.
type Interest struct {
	ID               int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Summary          *string    `json:"summary"`
	MemberID         *int64     `gorm:"index" json:"member_id"`
	CategoryID       *int64     `gorm:"index" json:"category_id"`
	RegistrationDate *time.Time `json:"registration_date"`
	PublishedDate    *time.Time `gorm:"index" json:"published_date"`
	Rectified        *bool      `json:"rectified"`
	RectifiedDetails *string    `json:"rectified_details"`
	ParentID         *int64     `gorm:"index" json:"parent_id"`
}

func (Interest) TableName() string {
	return "interests"
}

// InterestField holds one non-monetary attribute. Value is kept verbatim as
// text; Type says how to read it ("String", "DateOnly", "Boolean", ...).
type InterestField struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	InterestID  int64   `gorm:"index;not null" json:"interest_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Value       *string `json:"value"`
}

func (InterestField) TableName() string {
	return "interest_fields"
}

type MonetaryValueField struct {
	ID         string   `gorm:"primaryKey;size:36" json:"id"`
	InterestID int64    `gorm:"uniqueIndex;not null" json:"interest_id"`
	Value      *float64 `json:"value"`
	Currency   *string  `gorm:"size:3" json:"currency"`
}

func (MonetaryValueField) TableName() string {
	return "monetary_value_fields"
}

type SearchFilter struct {
	MemberName      string
	Party           string
	House           *int
	PublishedBefore *time.Time
	PublishedAfter  *time.Time
	Skip            int
	Take            int
}

type MemberTotal struct {
	Member              members.Member `json:"member"`
	TotalInterestsValue float64        `json:"total_interests_value"`
}

type InterestDetail struct {
	Interest
	Category           *InterestCategory   `json:"category"`
	Fields             []InterestField     `json:"fields"`
	MonetaryValueField *MonetaryValueField `json:"monetary_value_field"`
}

type MemberInterests struct {
	Member              members.Member   `json:"member"`
	TotalInterestsValue float64          `json:"total_interests_value"`
	Interests           []InterestDetail `json:"interests"`
}
