package usage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	Outcome    Outcome
	StatusCode int
	Provider   string
	Preset     string
	Duration   time.Duration
}

func (s *Service) Record(ctx context.Context, in RecordInput) (Record, error) {
	if in.Outcome == "" || in.StatusCode == 0 {
		return Record{}, ErrInvalidInput
	}

	rec := Record{
		ID:         uuid.NewString(),
		Outcome:    in.Outcome,
		StatusCode: in.StatusCode,
		Provider:   in.Provider,
		Preset:     in.Preset,
		Duration:   in.Duration,
		OccurredAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Summary(ctx context.Context, since *time.Time) (Summary, error) {
	sum, err := s.repo.Summarize(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	if sum.ByOutcome == nil {
		sum.ByOutcome = map[Outcome]int{}
	}
	sum.Since = since
	return sum, nil
}

// Prune borra el historial más viejo que retention.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return s.repo.Prune(ctx, s.now().Add(-retention))
}

// Run poda periódicamente hasta que ctx se cancela. onPrune es opcional.
func (s *Service) Run(ctx context.Context, every, retention time.Duration, onPrune func(pruned int, err error)) {
	if every <= 0 {
		every = 10 * time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Prune(ctx, retention)
			if onPrune != nil {
				onPrune(n, err)
			}
		}
	}
}
