package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"condogov/internal/entity"
	"condogov/internal/process"
	"condogov/internal/validation"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

// BatchService validates entity references across many processes in one
// sweep and derives the integrity dashboard metrics.
type BatchService struct {
	validator   *Service
	processes   process.Store
	entities    entity.Store
	concurrency int
}

func NewBatchService(validator *Service, processes process.Store, entities entity.Store, concurrency int) *BatchService {
	if concurrency < 1 {
		concurrency = 4
	}
	return &BatchService{
		validator:   validator,
		processes:   processes,
		entities:    entities,
		concurrency: concurrency,
	}
}

// ValidateAll validates the current version of each given process, or of
// every process when processIDs is empty. Unknown ids are skipped silently.
func (s *BatchService) ValidateAll(ctx context.Context, processIDs []id.ProcessID) (*validation.BatchReport, error) {
	targets, err := s.resolveTargets(ctx, processIDs)
	if err != nil {
		return nil, err
	}

	report := &validation.BatchReport{
		TotalProcesses: len(targets),
		Issues:         []validation.ProcessIssue{},
		GeneratedAt:    requestcontext.Now(ctx),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range targets {
		g.Go(func() error {
			names, err := s.currentEntityNames(gctx, p.ID)
			if err != nil {
				return err
			}
			result, err := s.validator.ValidateEntities(gctx, names)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if result.Valid {
				report.ValidProcesses++
				return nil
			}
			report.InvalidProcesses++
			report.Issues = append(report.Issues, validation.ProcessIssue{
				ProcessID:          p.ID,
				ProcessName:        p.Name,
				MissingEntities:    result.MissingEntities,
				IncompleteEntities: result.IncompleteEntities,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Issues, func(i, j int) bool {
		return report.Issues[i].ProcessName < report.Issues[j].ProcessName
	})
	return report, nil
}

// IntegrityMetrics computes the dashboard view: entity completeness by the
// coarse name+type+(phone|email) heuristic, process issue counts via
// ValidateAll, and active entities no current version references.
func (s *BatchService) IntegrityMetrics(ctx context.Context) (*validation.Metrics, error) {
	entities, err := s.entities.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "entity lookup failed")
	}

	m := &validation.Metrics{
		TotalEntities:    len(entities),
		OrphanedEntities: []string{},
		GeneratedAt:      requestcontext.Now(ctx),
	}
	for _, e := range entities {
		if e.HasField("name") && e.HasField("type") && (e.HasField("phone") || e.HasField("email")) {
			m.CompleteEntities++
		}
	}

	report, err := s.ValidateAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	m.TotalProcesses = report.TotalProcesses
	m.ProcessesWithIssues = report.InvalidProcesses

	referenced, err := s.referencedNames(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if !referenced[e.Name] {
			m.OrphanedEntities = append(m.OrphanedEntities, e.Name)
		}
	}
	sort.Strings(m.OrphanedEntities)
	return m, nil
}

func (s *BatchService) resolveTargets(ctx context.Context, processIDs []id.ProcessID) ([]*process.Process, error) {
	if len(processIDs) == 0 {
		all, err := s.processes.ListAll(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "process lookup failed")
		}
		return all, nil
	}

	targets := make([]*process.Process, 0, len(processIDs))
	for _, pid := range processIDs {
		p, err := s.processes.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "process lookup failed")
		}
		targets = append(targets, p)
	}
	return targets, nil
}

// currentEntityNames reads the entity references of a process's current
// version. A process whose versions vanished mid-run reads as empty.
func (s *BatchService) currentEntityNames(ctx context.Context, processID id.ProcessID) ([]string, error) {
	v, err := s.processes.CurrentVersion(ctx, processID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "version lookup failed")
	}
	return v.Content.Entities, nil
}

// referencedNames unions the entity references across the current versions
// of all processes.
func (s *BatchService) referencedNames(ctx context.Context) (map[string]bool, error) {
	all, err := s.processes.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "process lookup failed")
	}
	referenced := make(map[string]bool)
	for _, p := range all {
		names, err := s.currentEntityNames(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			referenced[strings.TrimSpace(name)] = true
		}
	}
	return referenced, nil
}
