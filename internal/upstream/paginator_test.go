package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeResponse struct {
	status int
	body   string
}

func (r fakeResponse) StatusCode() int {
	return r.status
}

func (r fakeResponse) JSON() (gjson.Result, error) {
	return gjson.Parse(r.body), nil
}

func (r fakeResponse) RaiseForStatus() error {
	if r.status >= 300 {
		return &StatusError{StatusCode: r.status, URL: "fake"}
	}
	return nil
}

// fakeClient serves pre-sized pages in order and records each call's params.
type fakeClient struct {
	pageSizes []int
	failAt    int
	calls     []Params
}

func (c *fakeClient) Get(_ context.Context, _ string, params Params) (Response, error) {
	c.calls = append(c.calls, params)
	call := len(c.calls) - 1
	if c.failAt > 0 && call+1 == c.failAt {
		return fakeResponse{status: http.StatusServiceUnavailable}, nil
	}

	size := 0
	if call < len(c.pageSizes) {
		size = c.pageSizes[call]
	}
	skip, _ := params["skip"].(int)

	items := make([]string, 0, size)
	for i := 0; i < size; i++ {
		items = append(items, fmt.Sprintf(`{"id":%d}`, skip+i))
	}
	return fakeResponse{status: http.StatusOK, body: `{"items":[` + strings.Join(items, ",") + `]}`}, nil
}

func collect(t *testing.T, p *Paginator) ([]gjson.Result, error) {
	t.Helper()
	var out []gjson.Result
	for item, err := range p.Records(context.Background()) {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

func TestPaginatorStopsOnShortPage(t *testing.T) {
	client := &fakeClient{pageSizes: []int{20, 20, 20, 7}}
	p := NewPaginator(client, "/Members/Search", Params{"IsCurrentMember": "true"})

	items, err := collect(t, p)
	require.NoError(t, err)

	assert.Len(t, items, 67)
	require.Len(t, client.calls, 4)
	for i, call := range client.calls {
		assert.Equal(t, i*20, call["skip"])
		assert.Equal(t, "true", call["IsCurrentMember"])
	}
	assert.Equal(t, int64(66), items[66].Get("id").Int())
	assert.Equal(t, 4, p.Requests())
	assert.Equal(t, 67, p.Fetched())
}

func TestPaginatorEmptyFirstPage(t *testing.T) {
	client := &fakeClient{pageSizes: []int{0}}
	p := NewPaginator(client, "/Interests", nil)

	items, err := collect(t, p)
	require.NoError(t, err)

	assert.Empty(t, items)
	assert.Len(t, client.calls, 1)
}

func TestPaginatorShortFirstPage(t *testing.T) {
	client := &fakeClient{pageSizes: []int{3, 20}}
	p := NewPaginator(client, "/Interests", nil)

	items, err := collect(t, p)
	require.NoError(t, err)

	assert.Len(t, items, 3)
	assert.Len(t, client.calls, 1)
}

func TestPaginatorAdvancesByItemsReturned(t *testing.T) {
	client := &fakeClient{pageSizes: []int{10, 10, 4}}
	p := NewPaginator(client, "/Interests", nil, WithPageSize(10))

	items, err := collect(t, p)
	require.NoError(t, err)

	assert.Len(t, items, 24)
	require.Len(t, client.calls, 3)
	assert.Equal(t, 0, client.calls[0]["skip"])
	assert.Equal(t, 10, client.calls[1]["skip"])
	assert.Equal(t, 20, client.calls[2]["skip"])
}

func TestPaginatorStatusErrorAborts(t *testing.T) {
	client := &fakeClient{pageSizes: []int{20, 20, 20}, failAt: 2}
	p := NewPaginator(client, "/Interests", nil)

	items, err := collect(t, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Len(t, items, 20)
	assert.Len(t, client.calls, 2)
}

func TestPaginatorIsLazy(t *testing.T) {
	client := &fakeClient{pageSizes: []int{20, 20, 20}}
	p := NewPaginator(client, "/Interests", nil)

	count := 0
	for _, err := range p.Records(context.Background()) {
		require.NoError(t, err)
		count++
		if count == 5 {
			break
		}
	}

	assert.Len(t, client.calls, 1)
}

func TestPaginatorIsSingleUse(t *testing.T) {
	client := &fakeClient{pageSizes: []int{2}}
	p := NewPaginator(client, "/Interests", nil)

	_, err := collect(t, p)
	require.NoError(t, err)

	_, err = collect(t, p)
	assert.ErrorIs(t, err, ErrConsumed)
	assert.Len(t, client.calls, 1)
}

func TestPaginatorDoesNotMutateParams(t *testing.T) {
	params := Params{"take": 20}
	client := &fakeClient{pageSizes: []int{20, 1}}
	p := NewPaginator(client, "/Interests", params)

	_, err := collect(t, p)
	require.NoError(t, err)

	_, hasSkip := params["skip"]
	assert.False(t, hasSkip)
}
