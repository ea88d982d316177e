package record

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=record
type Repository interface {
	ListDocuments(ctx context.Context, userID string, kind Kind) ([]Document, error)
	InsertDocuments(ctx context.Context, userID string, kind Kind, docs []Document) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	Kind          Kind
	Amount        int64
	Label         string
	PaymentMethod string
	Comment       string
	Date          time.Time
}

// Create validates and stores a single record for the user.
func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Record, error) {
	records, err := s.CreateBatch(ctx, userID, params.Kind, []CreateParams{params})
	if err != nil {
		return nil, err
	}

	return records[0], nil
}

// CreateBatch validates every params entry before writing any of them.
func (s *Service) CreateBatch(ctx context.Context, userID string, kind Kind, params []CreateParams) ([]*Record, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	if len(params) == 0 {
		return nil, nil
	}

	records := make([]*Record, len(params))
	docs := make([]Document, len(params))

	for i, p := range params {
		if p.Kind == "" {
			p.Kind = kind
		}

		if err := s.validate(kind, p); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		r := &Record{
			ID:            uuid.NewString(),
			Kind:          kind,
			Amount:        p.Amount,
			Label:         strings.TrimSpace(p.Label),
			Date:          Day(p.Date),
			PaymentMethod: strings.TrimSpace(p.PaymentMethod),
			Comment:       strings.TrimSpace(p.Comment),
		}
		records[i] = r
		docs[i] = NewDocument(userID, *r)
	}

	if err := s.repo.InsertDocuments(ctx, userID, kind, docs); err != nil {
		return nil, fmt.Errorf("inserting %s: %w", kind, err)
	}

	return records, nil
}

func (s *Service) validate(kind Kind, p CreateParams) error {
	if p.Kind != kind {
		return fmt.Errorf("%w: kind %q does not match %q", ErrInvalid, p.Kind, kind)
	}

	if kind != KindExpense && kind != KindIncome {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if p.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}

	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, kind.LabelField())
	}

	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}

	if Day(p.Date).After(Day(s.now())) {
		return fmt.Errorf("%w: date cannot be in the future", ErrInvalid)
	}

	return nil
}

// List returns the user's decoded records of one kind, newest first.
func (s *Service) List(ctx context.Context, userID string, kind Kind) ([]Record, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	docs, err := s.repo.ListDocuments(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}

	records := DecodeAll(docs, kind)
	slices.SortFunc(records, func(a, b Record) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return records, nil
}
