package record

import (
	"fmt"
	"log/slog"
	"strings"
)

// Document is a record as held by a store, before normalisation.
// Expense documents carry their label in Category, income documents in Source.
type Document struct {
	ID            string `json:"-" bson:"_id,omitempty"`
	UserID        string `json:"userId,omitempty" bson:"userId"`
	Amount        Amount `json:"amount" bson:"amount"`
	Category      string `json:"category,omitempty" bson:"category,omitempty"`
	Source        string `json:"source,omitempty" bson:"source,omitempty"`
	Date          string `json:"date" bson:"date"`
	PaymentMethod string `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Comment       string `json:"comment,omitempty" bson:"comment,omitempty"`
}

// NewDocument encodes a record in the canonical stored shape.
func NewDocument(userID string, r Record) Document {
	doc := Document{
		ID:            r.ID,
		UserID:        userID,
		Amount:        CentsAmount(r.Amount),
		Date:          FormatDate(r.Date),
		PaymentMethod: r.PaymentMethod,
		Comment:       r.Comment,
	}

	if r.Kind == KindIncome {
		doc.Source = r.Label
	} else {
		doc.Category = r.Label
	}

	return doc
}

// Label returns the label field that applies to the kind.
func (d Document) Label(kind Kind) string {
	if kind == KindIncome {
		return strings.TrimSpace(d.Source)
	}

	return strings.TrimSpace(d.Category)
}

// Decode normalises the document into a Record. Every failure wraps ErrMalformed.
func (d Document) Decode(kind Kind) (Record, error) {
	cents, err := d.Amount.Cents()
	if err != nil {
		return Record{}, err
	}

	label := d.Label(kind)
	if label == "" {
		return Record{}, fmt.Errorf("%w: missing %s", ErrMalformed, kind.LabelField())
	}

	date, ok := ParseDate(d.Date)
	if !ok {
		return Record{}, fmt.Errorf("%w: unparseable date %q", ErrMalformed, d.Date)
	}

	payment := strings.TrimSpace(d.PaymentMethod)
	if payment == "" && kind == KindExpense {
		payment = defaultPayMethod
	}

	return Record{
		ID:            d.ID,
		Kind:          kind,
		Amount:        cents,
		Label:         label,
		Date:          date,
		PaymentMethod: payment,
		Comment:       d.Comment,
	}, nil
}

// DecodeAll decodes a snapshot, dropping malformed documents.
func DecodeAll(docs []Document, kind Kind) []Record {
	records := make([]Record, 0, len(docs))

	for _, doc := range docs {
		r, err := doc.Decode(kind)
		if err != nil {
			slog.Warn("skipping malformed record", "id", doc.ID, "kind", kind, "error", err)
			continue
		}

		records = append(records, r)
	}

	return records
}
