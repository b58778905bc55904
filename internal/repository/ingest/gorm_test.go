package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	ingestdomain "parliament-interests/internal/domain/ingest"
	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"
	"parliament-interests/internal/testutil"
	"parliament-interests/internal/testutil/fixtures"
)

func mapMember(t *testing.T, raw string) ingestdomain.Entities {
	t.Helper()
	mapped, err := ingestdomain.MemberAndPartyFromRecord(gjson.Parse(raw))
	require.NoError(t, err)
	return mapped.Entities()
}

func mapInterest(t *testing.T, raw string) ingestdomain.Entities {
	t.Helper()
	mapped, err := ingestdomain.InterestFromRecord(gjson.Parse(raw))
	require.NoError(t, err)
	return mapped.Entities()
}

func TestMergeBatchCreatesPartyAndMember(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)

	counts, err := repo.MergeBatch(context.Background(), []ingestdomain.Entities{mapMember(t, fixtures.MemberAbbott())})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"parties": 1, "members": 1}, counts)

	var member membersdomain.Member
	require.NoError(t, gormDB.First(&member, 172).Error)
	require.NotNil(t, member.PartyID)

	var party membersdomain.Party
	require.NoError(t, gormDB.First(&party, *member.PartyID).Error)
	assert.Equal(t, "Independent", *party.Name)
}

func TestMergeBatchIsIdempotent(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)
	ctx := context.Background()

	first := &membersdomain.Member{ID: 10, NameDisplayAs: testutil.Ptr("Mr A Smith")}
	_, err := repo.MergeBatch(ctx, []ingestdomain.Entities{{first}})
	require.NoError(t, err)

	second := &membersdomain.Member{ID: 10, NameDisplayAs: testutil.Ptr("Sir Alan Smith"), House: testutil.Ptr(2)}
	_, err = repo.MergeBatch(ctx, []ingestdomain.Entities{{second}})
	require.NoError(t, err)

	var rows []membersdomain.Member
	require.NoError(t, gormDB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sir Alan Smith", *rows[0].NameDisplayAs)
	assert.Equal(t, 2, *rows[0].House)
}

func TestMergeBatchReingestsInterestWithoutDuplicates(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)
	ctx := context.Background()

	batch := []ingestdomain.Entities{
		mapMember(t, fixtures.MemberAbbott()),
		mapInterest(t, fixtures.InterestWimbledon()),
	}
	for range 2 {
		counts, err := repo.MergeBatch(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 16, counts["interest_fields"])
	}

	var fields, monetary, interests int64
	require.NoError(t, gormDB.Model(&interestsdomain.InterestField{}).Count(&fields).Error)
	require.NoError(t, gormDB.Model(&interestsdomain.MonetaryValueField{}).Count(&monetary).Error)
	require.NoError(t, gormDB.Model(&interestsdomain.Interest{}).Count(&interests).Error)
	assert.Equal(t, int64(16), fields)
	assert.Equal(t, int64(1), monetary)
	assert.Equal(t, int64(1), interests)

	var value interestsdomain.MonetaryValueField
	require.NoError(t, gormDB.Where("interest_id = ?", 12880).First(&value).Error)
	assert.InDelta(t, 1396.0, *value.Value, 0.001)
	assert.Equal(t, "GBP", *value.Currency)
}

func TestMergeBatchDropsFieldsRemovedUpstream(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)
	ctx := context.Background()

	_, err := repo.MergeBatch(ctx, []ingestdomain.Entities{mapInterest(t, `{"id":5,"fields":[
		{"name":"A","value":"1"},{"name":"B","value":"2"},
		{"name":"Value","typeInfo":{"currencyCode":"GBP"},"value":"3"}]}`)})
	require.NoError(t, err)

	_, err = repo.MergeBatch(ctx, []ingestdomain.Entities{mapInterest(t, `{"id":5,"fields":[{"name":"A","value":"9"}]}`)})
	require.NoError(t, err)

	var fields []interestsdomain.InterestField
	require.NoError(t, gormDB.Where("interest_id = ?", 5).Find(&fields).Error)
	require.Len(t, fields, 1)
	assert.Equal(t, "9", *fields[0].Value)

	var monetary int64
	require.NoError(t, gormDB.Model(&interestsdomain.MonetaryValueField{}).Count(&monetary).Error)
	assert.Zero(t, monetary)
}

func TestMergeBatchSkipsNilSlots(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)

	var noParty *membersdomain.Party
	counts, err := repo.MergeBatch(context.Background(), []ingestdomain.Entities{
		{noParty, &membersdomain.Member{ID: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"members": 1}, counts)

	var parties int64
	require.NoError(t, gormDB.Model(&membersdomain.Party{}).Count(&parties).Error)
	assert.Zero(t, parties)
}

func TestMergeBatchRejectsUnknownEntity(t *testing.T) {
	repo := NewGorm(testutil.SQLite(t))

	_, err := repo.MergeBatch(context.Background(), []ingestdomain.Entities{
		{&membersdomain.Member{ID: 1}, struct{ X int }{1}},
	})
	require.Error(t, err)

	var members int64
	require.NoError(t, repo.db.Model(&membersdomain.Member{}).Count(&members).Error)
	assert.Zero(t, members, "batch must roll back")
}

func TestDanglingReferences(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)
	ctx := context.Background()

	_, err := repo.MergeBatch(ctx, []ingestdomain.Entities{
		mapMember(t, fixtures.MemberAbbott()),
		mapInterest(t, fixtures.InterestWimbledon()),
		mapInterest(t, fixtures.InterestArticle()),
	})
	require.NoError(t, err)

	dangling, err := repo.DanglingReferences(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(0), dangling["members.party_id"])
	assert.Equal(t, int64(1), dangling["interests.member_id"])
	assert.Equal(t, int64(1), dangling["interests.parent_id"])
	assert.Equal(t, int64(0), dangling["interests.category_id"])
	assert.Equal(t, int64(0), dangling["interest_fields.interest_id"])
	assert.Len(t, dangling, len(references))
}

func TestCompletedRunMarker(t *testing.T) {
	gormDB := testutil.SQLite(t)
	repo := NewGorm(gormDB)
	ctx := context.Background()

	completed, err := repo.HasCompletedRun(ctx)
	require.NoError(t, err)
	assert.False(t, completed)

	// Merged rows alone do not count as a completed run.
	_, err = repo.MergeBatch(ctx, []ingestdomain.Entities{mapMember(t, fixtures.MemberAbbott())})
	require.NoError(t, err)
	completed, err = repo.HasCompletedRun(ctx)
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, repo.RecordCompletedRun(ctx, ingestdomain.CompletedRun{
		FinishedAt:     time.Date(2024, 7, 5, 6, 0, 0, 0, time.UTC),
		MembersFetched: 1,
	}))
	completed, err = repo.HasCompletedRun(ctx)
	require.NoError(t, err)
	assert.True(t, completed)
}
