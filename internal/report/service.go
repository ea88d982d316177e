package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

const maxAttempts = 2

//go:generate mockgen -source=service.go -destination=source_mock.go -package=report
type Source interface {
	List(ctx context.Context, userID string, kind record.Kind) ([]record.Record, error)
}

type Service struct {
	source  Source
	palette Palette
	timeout time.Duration
}

// NewService builds a report service. timeout bounds each fetch attempt; zero disables it.
func NewService(source Source, palette Palette, timeout time.Duration) *Service {
	if palette == nil {
		palette = HashPalette{}
	}

	return &Service{source: source, palette: palette, timeout: timeout}
}

// Dashboard aggregates both kinds for the windows ending at ref.
func (s *Service) Dashboard(ctx context.Context, userID string, ref time.Time) (*Dashboard, error) {
	expenses, income, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Reference: record.Day(ref),
		Expense:   Aggregate(expenses, ref, s.palette),
		Income:    Aggregate(income, ref, s.palette),
	}, nil
}

// Day selects both kinds' records dated on date.
func (s *Service) Day(ctx context.Context, userID string, date time.Time) (*DaySummary, error) {
	expenses, income, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := SelectForDate(expenses, income, date)

	return &summary, nil
}

func (s *Service) fetch(ctx context.Context, userID string) (expenses, income []record.Record, err error) {
	if userID == "" {
		return nil, nil, record.ErrUnauthenticated
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		expenses, err = s.fetchKind(gctx, userID, record.KindExpense)

		return err
	})

	g.Go(func() error {
		var err error
		income, err = s.fetchKind(gctx, userID, record.KindIncome)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return expenses, income, nil
}

func (s *Service) fetchKind(ctx context.Context, userID string, kind record.Kind) ([]record.Record, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		records, err := s.attempt(ctx, userID, kind)
		if err == nil {
			return records, nil
		}

		lastErr = err

		if ctx.Err() != nil || errors.Is(err, record.ErrUnauthenticated) {
			break
		}

		if attempt < maxAttempts {
			slog.Warn("fetch failed, retrying", "kind", kind, "attempt", attempt, "error", err)
		}
	}

	return nil, fmt.Errorf("fetching %s: %w", kind, lastErr)
}

func (s *Service) attempt(ctx context.Context, userID string, kind record.Kind) ([]record.Record, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.source.List(ctx, userID, kind)
}
