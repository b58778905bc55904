package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestDeepGet(t *testing.T) {
	data := gjson.Parse(`{"a":{"b":{"c":1}},"list":[{"x":"first"},{"x":"second"}],"dotted.key":{"v":true}}`)

	assert.Equal(t, int64(1), DeepGet(data, "a", "b", "c").Int())
	assert.Equal(t, "second", DeepGet(data, "list", "1", "x").String())
	assert.True(t, DeepGet(data, "dotted.key", "v").Bool())
	assert.Equal(t, data.Raw, DeepGet(data).Raw)
}

func TestDeepGetMissing(t *testing.T) {
	cases := []struct {
		name string
		json string
		path []string
	}{
		{"through scalar", `{"a":1}`, []string{"a", "b"}},
		{"missing key", `{"a":{"b":1}}`, []string{"a", "c"}},
		{"through null", `{"a":null}`, []string{"a", "b"}},
		{"index out of range", `{"a":[1]}`, []string{"a", "3"}},
		{"non numeric index", `{"a":[1]}`, []string{"a", "x"}},
		{"negative index", `{"a":[1]}`, []string{"a", "-1"}},
		{"not json", `oops`, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, DeepGet(gjson.Parse(tc.json), tc.path...).Exists())
		})
	}
}

func TestDeepGetKeepsExplicitNull(t *testing.T) {
	result := DeepGet(gjson.Parse(`{"a":{"b":null}}`), "a", "b")
	assert.True(t, result.Exists())
	assert.Equal(t, gjson.Null, result.Type)
}

func TestParseDate(t *testing.T) {
	cases := map[string]*time.Time{
		`"2025-07-14"`:                 ptr(time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)),
		`"1987-06-11T00:00:00"`:        ptr(time.Date(1987, 6, 11, 0, 0, 0, 0, time.UTC)),
		`"2024-07-04T09:30:00Z"`:       ptr(time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC)),
		`"2024-07-04T09:30:00.123456"`: ptr(time.Date(2024, 7, 4, 9, 30, 0, 123456000, time.UTC)),
		`""`:                           nil,
		`"not a date"`:                 nil,
		`null`:                         nil,
		`20250714`:                     nil,
	}
	for raw, want := range cases {
		got := ParseDate(gjson.Parse(raw))
		if want == nil {
			assert.Nil(t, got, raw)
			continue
		}
		if assert.NotNil(t, got, raw) {
			assert.True(t, want.Equal(*got), raw)
		}
	}
}

func TestRawText(t *testing.T) {
	assert.Nil(t, rawText(gjson.Parse(`null`)))
	assert.Equal(t, "In kind", *rawText(gjson.Parse(`"In kind"`)))
	assert.Equal(t, "false", *rawText(gjson.Parse(`false`)))
	assert.Equal(t, "2.5", *rawText(gjson.Parse(`2.5`)))
}

func ptr[T any](v T) *T {
	return &v
}
