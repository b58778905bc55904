package ingest

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"parliament-interests/internal/domain/interests"
	"parliament-interests/internal/domain/members"
)

// Entities is one mapped record as an ordered tuple of model pointers.
// Referenced rows come before the rows that reference them. Slots may hold
// typed nil pointers; Present drops them.
type Entities []any

func (e Entities) Present() Entities {
	out := make(Entities, 0, len(e))
	for _, entity := range e {
		if isNil(entity) {
			continue
		}
		out = append(out, entity)
	}
	return out
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

type MemberAndParty struct {
	Member *members.Member
	Party  *members.Party
}

func (m MemberAndParty) Entities() Entities {
	return Entities{m.Party, m.Member}
}

type MappedInterest struct {
	Interest *interests.Interest
	Category *interests.InterestCategory
	Fields   []interests.InterestField
	Monetary *interests.MonetaryValueField
}

func (m MappedInterest) Entities() Entities {
	out := make(Entities, 0, len(m.Fields)+3)
	out = append(out, m.Category, m.Interest)
	for i := range m.Fields {
		out = append(out, &m.Fields[i])
	}
	return append(out, m.Monetary)
}

// MemberAndPartyFromRecord maps a members-api search item, shaped
// {"value": {...member...}, "links": [...]}. Missing data maps to nil
// fields; a record without an id yields a nil Member, and a member without a
// latest party yields a nil Party.
func MemberAndPartyFromRecord(record gjson.Result) (MemberAndParty, error) {
	if !record.IsObject() {
		return MemberAndParty{}, fmt.Errorf("member record: %w", ErrNotObject)
	}

	value := DeepGet(record, "value")
	party := DeepGet(value, "latestParty")
	membership := DeepGet(value, "latestHouseMembership")
	status := DeepGet(membership, "membershipStatus")

	var result MemberAndParty

	if partyID := optInt64(DeepGet(party, "id")); partyID != nil {
		result.Party = &members.Party{
			ID:                 *partyID,
			Name:               optString(DeepGet(party, "name")),
			Abbreviation:       optString(DeepGet(party, "abbreviation")),
			BackgroundColour:   optString(DeepGet(party, "backgroundColour")),
			ForegroundColour:   optString(DeepGet(party, "foregroundColour")),
			IsIndependentParty: optBool(DeepGet(party, "isIndependentParty")),
		}
	}

	memberID := optInt64(DeepGet(value, "id"))
	if memberID == nil {
		return result, nil
	}

	result.Member = &members.Member{
		ID:                  *memberID,
		NameListAs:          optString(DeepGet(value, "nameListAs")),
		NameDisplayAs:       optString(DeepGet(value, "nameDisplayAs")),
		NameFullTitle:       optString(DeepGet(value, "nameFullTitle")),
		NameAddressAs:       optString(DeepGet(value, "nameAddressAs")),
		Gender:              optString(DeepGet(value, "gender")),
		ThumbnailURL:        optString(DeepGet(value, "thumbnailUrl")),
		PartyID:             optInt64(DeepGet(party, "id")),
		House:               optInt(DeepGet(membership, "house")),
		MembershipFrom:      optString(DeepGet(membership, "membershipFrom")),
		MembershipFromID:    optInt64(DeepGet(membership, "membershipFromId")),
		MembershipStartDate: ParseDate(DeepGet(membership, "membershipStartDate")),
		MembershipEndDate:   ParseDate(DeepGet(membership, "membershipEndDate")),
		MembershipEndReason: optString(DeepGet(membership, "membershipEndReason")),
		StatusIsActive:      optBool(DeepGet(status, "statusIsActive")),
		StatusStartDate:     ParseDate(DeepGet(status, "statusStartDate")),
	}

	return result, nil
}

// InterestFromRecord maps an interests-api item. Each entry in "fields"
// whose typeInfo carries a currency code becomes the interest's monetary
// value (the last one wins); every other entry becomes a generic field with
// its value kept verbatim.
func InterestFromRecord(record gjson.Result) (MappedInterest, error) {
	if !record.IsObject() {
		return MappedInterest{}, fmt.Errorf("interest record: %w", ErrNotObject)
	}

	var result MappedInterest

	category := DeepGet(record, "category")
	if categoryID := optInt64(DeepGet(category, "id")); categoryID != nil {
		result.Category = &interests.InterestCategory{
			ID:     *categoryID,
			Number: optString(DeepGet(category, "number")),
			Name:   optString(DeepGet(category, "name")),
		}
	}

	interestID := optInt64(DeepGet(record, "id"))
	if interestID == nil {
		return result, nil
	}

	result.Interest = &interests.Interest{
		ID:               *interestID,
		Summary:          optString(DeepGet(record, "summary")),
		MemberID:         optInt64(DeepGet(record, "member", "id")),
		CategoryID:       optInt64(DeepGet(category, "id")),
		RegistrationDate: ParseDate(DeepGet(record, "registrationDate")),
		PublishedDate:    ParseDate(DeepGet(record, "publishedDate")),
		Rectified:        optBool(DeepGet(record, "rectified")),
		RectifiedDetails: optString(DeepGet(record, "rectifiedDetails")),
		ParentID:         optInt64(DeepGet(record, "parentInterestId")),
	}

	fields := DeepGet(record, "fields")
	if !fields.IsArray() {
		return result, nil
	}

	ordinals := make(map[string]int)
	for _, field := range fields.Array() {
		currency := optString(DeepGet(field, "typeInfo", "currencyCode"))
		if currency != nil && *currency != "" {
			result.Monetary = &interests.MonetaryValueField{
				ID:         MonetaryFieldID(*interestID),
				InterestID: *interestID,
				Value:      optFloat(DeepGet(field, "value")),
				Currency:   currency,
			}
			continue
		}

		name := optString(DeepGet(field, "name"))
		key := ""
		if name != nil {
			key = *name
		}
		ordinal := ordinals[key]
		ordinals[key]++

		result.Fields = append(result.Fields, interests.InterestField{
			ID:          InterestFieldID(*interestID, key, ordinal),
			InterestID:  *interestID,
			Name:        name,
			Description: optString(DeepGet(field, "description")),
			Type:        optString(DeepGet(field, "type")),
			Value:       rawText(DeepGet(field, "value")),
		})
	}

	return result, nil
}

// InterestFieldID derives a stable surrogate key so that re-ingesting the
// same interest overwrites its field rows instead of appending new ones.
func InterestFieldID(interestID int64, name string, ordinal int) string {
	key := fmt.Sprintf("parliament-interests:interest:%d:field:%s:%d", interestID, name, ordinal)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func MonetaryFieldID(interestID int64) string {
	key := fmt.Sprintf("parliament-interests:interest:%d:monetary", interestID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
