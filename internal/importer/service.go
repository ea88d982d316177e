package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

type Importer interface {
	Parse(r io.Reader) ([]record.CreateParams, error)
}

type Service struct {
	parser Importer
}

func NewService() *Service {
	return &Service{
		parser: NewParser(),
	}
}

// Import parses r and keeps the entries of the requested kind. Entries from
// layouts that do not encode a direction are assigned kind.
func (s *Service) Import(kind record.Kind, r io.Reader) ([]record.CreateParams, error) {
	entries, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	params := make([]record.CreateParams, 0, len(entries))

	for _, e := range entries {
		if e.Kind == "" {
			e.Kind = kind
		}

		if e.Kind != kind {
			continue
		}

		params = append(params, e)
	}

	return params, nil
}
