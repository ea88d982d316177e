package record

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

type recordResponse struct {
	ID            string      `json:"id"`
	Kind          record.Kind `json:"kind"`
	Amount        int64       `json:"amount"`
	Label         string      `json:"label"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Comment       string      `json:"comment,omitempty"`
}

func toResponse(r record.Record) recordResponse {
	return recordResponse{
		ID:            r.ID,
		Kind:          r.Kind,
		Amount:        r.Amount,
		Label:         r.Label,
		Date:          r.Date.Format(time.DateOnly),
		PaymentMethod: r.PaymentMethod,
		Comment:       r.Comment,
	}
}

func toResponseList(records []record.Record) []recordResponse {
	resp := make([]recordResponse, len(records))
	for i, r := range records {
		resp[i] = toResponse(r)
	}

	return resp
}
