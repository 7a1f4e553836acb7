package records

import (
	"context"
	"errors"

	"github.com/cardiocare/platform/pkg/patient"
)

const (
	MsgRecordsDeleted      = "Record(s) deleted successfully!"
	MsgNoRecordsToDelete   = "No records found with the given name."
	MsgNoRecordsFound      = "No records found."
	MsgNameRequiredDelete  = "Please enter a name to delete a record."
	MsgNameRequiredSearch  = "Please enter a name to search for a record."
	predictionDisplayLabel = "Prediction Result"
)

var ErrNameRequired = errors.New("name is required")

// Browser lists, searches and deletes stored patient records.
type Browser struct {
	store Store
}

func NewBrowser(store Store) *Browser {
	return &Browser{store: store}
}

// ListAll returns records in the order the store yields them.
func (b *Browser) ListAll(ctx context.Context) ([]PatientRecord, error) {
	docs, err := b.store.All(ctx)
	if err != nil {
		return nil, storeError("list records", err)
	}
	return toRecords(docs), nil
}

// FindByName returns every record whose name equals name exactly.
func (b *Browser) FindByName(ctx context.Context, name string) ([]PatientRecord, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	docs, err := b.store.Query(ctx, patient.NameKey, name)
	if err != nil {
		return nil, storeError("search records", err)
	}
	return toRecords(docs), nil
}

// DeleteByName removes every record whose name equals name exactly and
// returns how many were removed. Deletes are issued one by one; when one
// fails the count of documents already removed is returned with the error.
func (b *Browser) DeleteByName(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, ErrNameRequired
	}
	docs, err := b.store.Query(ctx, patient.NameKey, name)
	if err != nil {
		return 0, storeError("delete records", err)
	}
	deleted := 0
	for _, doc := range docs {
		if err := b.store.Delete(ctx, doc.ID); err != nil {
			return deleted, storeError("delete records", err)
		}
		deleted++
	}
	return deleted, nil
}

// DeleteMessage is the outcome shown after a delete that did not fail.
func DeleteMessage(deleted int) string {
	if deleted == 0 {
		return MsgNoRecordsToDelete
	}
	return MsgRecordsDeleted
}

type Column struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

type Row struct {
	ID      string   `json:"id"`
	Columns []Column `json:"columns"`
}

// Rows lays records out in display order: name, the model fields in
// patient.FieldOrder, then the prediction. Missing values render empty.
func Rows(records []PatientRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		columns := make([]Column, 0, patient.FieldCount+2)
		columns = append(columns, Column{Key: patient.NameKey, Label: "Name", Value: rec.Input.Name})
		values := rec.Input.Values()
		for i, f := range patient.FieldOrder {
			columns = append(columns, Column{Key: string(f), Label: f.Label(), Value: displayValue(values[i])})
		}
		var prediction interface{} = ""
		if rec.Prediction != nil {
			prediction = int(*rec.Prediction)
		}
		columns = append(columns, Column{Key: patient.PredictionKey, Label: predictionDisplayLabel, Value: prediction})
		rows = append(rows, Row{ID: rec.ID, Columns: columns})
	}
	return rows
}

func displayValue(v patient.RawValue) interface{} {
	if v.IsAbsent() {
		return ""
	}
	return v.Document()
}

func toRecords(docs []StoredDocument) []PatientRecord {
	out := make([]PatientRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, RecordFromStored(doc))
	}
	return out
}
