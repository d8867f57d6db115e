// Package service implements the API operations: query, describe, object
// listing and catalog reload. It owns the parse, resolve, compile, execute,
// wrap pipeline and translates pipeline failures into API errors.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/stubforce/stubforce/internal/adapter"
	"github.com/stubforce/stubforce/internal/catalog"
	"github.com/stubforce/stubforce/internal/compile"
	"github.com/stubforce/stubforce/internal/envelope"
	"github.com/stubforce/stubforce/internal/exec"
	"github.com/stubforce/stubforce/pkg/soql"
)

// Service serves query and describe operations over one backing store.
// The catalog is swapped atomically on reload; in-flight requests keep the
// snapshot they started with.
type Service struct {
	adapter  adapter.Adapter
	executor *exec.Executor
	builder  *envelope.Builder
	catalog  atomic.Pointer[catalog.Catalog]
	logger   *slog.Logger
}

// New builds a Service. The initial catalog is introspected from the
// adapter's store.
func New(ctx context.Context, a adapter.Adapter, opts exec.Options, apiVersion string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cat, err := catalog.Build(ctx, a, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		adapter:  a,
		executor: exec.New(a, opts, logger),
		builder:  envelope.NewBuilder(apiVersion),
		logger:   logger,
	}
	s.catalog.Store(cat)
	return s, nil
}

// Catalog returns the current catalog snapshot.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog.Load()
}

// Query runs one query string through the full pipeline and returns the
// wire-format result. Failures are returned as *APIError.
func (s *Service) Query(ctx context.Context, text string) (envelope.QueryResult, *APIError) {
	cat := s.catalog.Load()

	q, err := soql.Parse(text)
	if err != nil {
		return envelope.QueryResult{}, apiError(err)
	}

	rq, err := catalog.Resolve(q, cat)
	if err != nil {
		return envelope.QueryResult{}, apiError(err)
	}
	if err := catalog.NormalizeLiterals(rq); err != nil {
		return envelope.QueryResult{}, apiError(err)
	}

	cq := compile.Compile(rq, s.adapter.Placeholder)

	rows, err := s.executor.Execute(ctx, cq)
	if err != nil {
		s.logger.Error("query execution failed",
			slog.String("object", cq.Object), slog.Any("error", err))
		return envelope.QueryResult{}, apiError(err)
	}

	result, err := s.builder.Wrap(cq, rows)
	if err != nil {
		return envelope.QueryResult{}, apiError(err)
	}

	s.logger.Info("query served",
		slog.String("object", cq.Object),
		slog.Int("rows", result.TotalSize))
	return result, nil
}

// Describe returns the metadata document for one object.
func (s *Service) Describe(object string) (DescribeResult, *APIError) {
	cat := s.catalog.Load()
	entry, ok := cat.Object(object)
	if !ok {
		return DescribeResult{}, apiError(&catalog.ObjectNotFoundError{
			Object:     object,
			Suggestion: catalog.Nearest(object, cat.ObjectNames()),
		})
	}
	return describeEntry(entry), nil
}

// Objects lists every queryable object.
func (s *Service) Objects() ObjectList {
	cat := s.catalog.Load()
	list := ObjectList{SObjects: make([]ObjectSummary, 0, len(cat.Objects()))}
	for _, e := range cat.Objects() {
		list.SObjects = append(list.SObjects, ObjectSummary{
			Name:        e.Name,
			Label:       e.Label(),
			Queryable:   true,
			Createable:  false,
			Updateable:  false,
			FieldsCount: len(e.Fields()),
		})
	}
	return list
}

// Reload re-introspects the backing store and swaps in a fresh catalog.
func (s *Service) Reload(ctx context.Context) *APIError {
	cat, err := catalog.Build(ctx, s.adapter, s.logger)
	if err != nil {
		s.logger.Error("catalog reload failed", slog.Any("error", err))
		return apiError(err)
	}
	s.catalog.Store(cat)
	s.logger.Info("catalog reloaded", slog.Int("objects", len(cat.Objects())))
	return nil
}
