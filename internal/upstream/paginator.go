package upstream

import (
	"context"
	"errors"
	"iter"
	"maps"
	"sync/atomic"

	"github.com/tidwall/gjson"

	"parliament-interests/internal/metrics"
	"parliament-interests/pkg/logger"
)

const DefaultPageSize = 20

var ErrConsumed = errors.New("paginator already consumed")

// Paginator walks a skip-offset paginated endpoint whose pages look like
// {"items": [...]}. It is single-use.
type Paginator struct {
	client      Client
	path        string
	params      Params
	pageSize    int
	source      string
	description string
	log         logger.Logger

	consumed atomic.Bool
	requests int
	fetched  int
}

type Option func(*Paginator)

func WithPageSize(size int) Option {
	return func(p *Paginator) {
		if size > 0 {
			p.pageSize = size
		}
	}
}

func WithLogger(log logger.Logger, description string) Option {
	return func(p *Paginator) {
		if log != nil {
			p.log = log
		}
		p.description = description
	}
}

func WithSource(source string) Option {
	return func(p *Paginator) {
		p.source = source
	}
}

func NewPaginator(client Client, path string, params Params, opts ...Option) *Paginator {
	p := &Paginator{
		client:      client,
		path:        path,
		params:      maps.Clone(params),
		pageSize:    DefaultPageSize,
		source:      path,
		description: "items",
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Records lazily yields every item across all pages. A page is requested
// only once the previous page's items have been consumed. The offset
// advances by the number of items actually returned, and a page shorter
// than the page size ends the sequence. Any transport or status error is
// yielded once and stops iteration.
func (p *Paginator) Records(ctx context.Context) iter.Seq2[gjson.Result, error] {
	return func(yield func(gjson.Result, error) bool) {
		if !p.consumed.CompareAndSwap(false, true) {
			yield(gjson.Result{}, ErrConsumed)
			return
		}

		p.log.Info("fetch: starting", "items", p.description, "path", p.path, "params", p.params.Values().Encode())

		skip := 0
		for {
			query := maps.Clone(p.params)
			if query == nil {
				query = Params{}
			}
			query["skip"] = skip

			items, err := p.page(ctx, query)
			if err != nil {
				yield(gjson.Result{}, err)
				return
			}

			skip += len(items)
			p.fetched += len(items)
			metrics.RecordRecordsFetched(p.source, len(items))

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			if len(items) < p.pageSize {
				p.log.Info("fetch: finished", "items", p.description, "total", p.fetched, "requests", p.requests)
				return
			}
		}
	}
}

func (p *Paginator) page(ctx context.Context, query Params) ([]gjson.Result, error) {
	p.requests++
	resp, err := p.client.Get(ctx, p.path, query)
	if err != nil {
		return nil, err
	}
	if err := resp.RaiseForStatus(); err != nil {
		return nil, err
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	return body.Get("items").Array(), nil
}

// Requests is the number of page requests issued so far.
func (p *Paginator) Requests() int {
	return p.requests
}

// Fetched is the number of items received so far.
func (p *Paginator) Fetched() int {
	return p.fetched
}
