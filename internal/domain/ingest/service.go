package ingest

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/tidwall/gjson"

	"parliament-interests/internal/metrics"
	"parliament-interests/internal/upstream"
	"parliament-interests/pkg/logger"
)

const (
	DefaultBatchSize = 100

	PassMembers   = "members"
	PassInterests = "interests"
)

type Options struct {
	BatchSize int
	PageSize  int
}

type Service struct {
	store     Store
	members   upstream.Client
	interests upstream.Client
	batchSize int
	pageSize  int
	log       logger.Logger
}

func NewService(store Store, membersClient, interestsClient upstream.Client, opts Options, log logger.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = upstream.DefaultPageSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		members:   membersClient,
		interests: interestsClient,
		batchSize: opts.BatchSize,
		pageSize:  opts.PageSize,
		log:       log.With("component", "ingest"),
	}
}

type PassResult struct {
	Fetched  int
	Requests int
	Upserted map[string]int
}

func (p PassResult) Total() int {
	total := 0
	for _, count := range p.Upserted {
		total += count
	}
	return total
}

type RunResult struct {
	Members   PassResult
	Interests PassResult
	Dangling  map[string]int64
	Duration  time.Duration
}

// Run performs one full ingestion: schema, then members with their parties,
// then interests with categories and fields. Members must land first since
// interests reference them. Any failure aborts the run; batches committed
// before the failure stay committed.
func (s *Service) Run(ctx context.Context) (result RunResult, err error) {
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		status := "success"
		if err != nil {
			status = "failed"
		}
		metrics.RecordRun(status, result.Duration.Seconds())
	}()

	s.log.Info("ingest: run started", "batch_size", s.batchSize, "page_size", s.pageSize)

	if err := s.store.EnsureSchema(ctx); err != nil {
		return result, fmt.Errorf("ensure schema: %w", err)
	}

	membersPager := upstream.ActiveMembers(s.members, s.pageSize, s.log)
	result.Members, err = s.pass(ctx, PassMembers, membersPager, func(record gjson.Result) (Entities, error) {
		mapped, err := MemberAndPartyFromRecord(record)
		return mapped.Entities(), err
	})
	if err != nil {
		return result, err
	}

	interestsPager := upstream.Interests(s.interests, s.pageSize, s.log)
	result.Interests, err = s.pass(ctx, PassInterests, interestsPager, func(record gjson.Result) (Entities, error) {
		mapped, err := InterestFromRecord(record)
		return mapped.Entities(), err
	})
	if err != nil {
		return result, err
	}

	result.Dangling, err = s.reportDangling(ctx)
	if err != nil {
		return result, err
	}

	err = s.store.RecordCompletedRun(ctx, CompletedRun{
		FinishedAt:       time.Now().UTC(),
		MembersFetched:   result.Members.Fetched,
		InterestsFetched: result.Interests.Fetched,
		DurationMillis:   time.Since(start).Milliseconds(),
	})
	if err != nil {
		return result, fmt.Errorf("record completed run: %w", err)
	}

	s.log.Info("ingest: run finished",
		"members_fetched", result.Members.Fetched,
		"interests_fetched", result.Interests.Fetched,
		"duration", time.Since(start).String(),
	)
	return result, nil
}

// Completed reports whether the store holds the result of at least one
// successful run. A failed run leaves no marker, so the next startup retries.
func (s *Service) Completed(ctx context.Context) (bool, error) {
	completed, err := s.store.HasCompletedRun(ctx)
	if err != nil {
		return false, fmt.Errorf("check completed run: %w", err)
	}
	return completed, nil
}

func (s *Service) pass(ctx context.Context, pass string, pager *upstream.Paginator, mapper func(gjson.Result) (Entities, error)) (PassResult, error) {
	upserted, err := s.Merge(ctx, pass, Map(pager.Records(ctx), mapper))
	result := PassResult{Fetched: pager.Fetched(), Requests: pager.Requests(), Upserted: upserted}
	if err != nil {
		return result, fmt.Errorf("ingest %s: %w", pass, err)
	}
	return result, nil
}

// Merge drains seq in batches of the configured size and commits each batch
// on its own. It logs the number of entities upserted once seq is exhausted.
func (s *Service) Merge(ctx context.Context, pass string, seq iter.Seq2[Entities, error]) (map[string]int, error) {
	upserted := make(map[string]int)
	batches := 0

	for batch, err := range Batched(seq, s.batchSize) {
		if err != nil {
			return upserted, err
		}

		counts, err := s.store.MergeBatch(ctx, batch)
		if err != nil {
			metrics.RecordBatch(pass, "failed")
			return upserted, fmt.Errorf("merge batch %d: %w", batches+1, err)
		}
		metrics.RecordBatch(pass, "committed")
		batches++

		for table, count := range counts {
			upserted[table] += count
		}
		s.log.Debug("ingest: batch committed", "pass", pass, "batch", batches, "records", len(batch))
	}

	total := 0
	for _, count := range upserted {
		total += count
	}
	s.log.Info("ingest: upserted entities", "pass", pass, "count", total, "batches", batches, "tables", upserted)
	return upserted, nil
}

func (s *Service) reportDangling(ctx context.Context) (map[string]int64, error) {
	dangling, err := s.store.DanglingReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("check references: %w", err)
	}

	for _, reference := range slices.Sorted(maps.Keys(dangling)) {
		count := dangling[reference]
		metrics.SetDanglingReferences(reference, count)
		if count > 0 {
			s.log.Warn("ingest: unresolved references", "reference", reference, "count", count)
		}
	}
	return dangling, nil
}
