package records

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// documentModel is one schema-less document. Several collections can share
// the table; the body is stored as jsonb.
type documentModel struct {
	ID         uuid.UUID         `gorm:"primaryKey;column:id;type:uuid"`
	Collection string            `gorm:"column:collection;index"`
	Body       datatypes.JSONMap `gorm:"column:body;type:jsonb"`
	CreatedAt  time.Time         `gorm:"column:created_at"`
}

func (documentModel) TableName() string { return "patient_documents" }

type PostgresStore struct {
	db         *gorm.DB
	collection string
}

func NewPostgresStore(db *gorm.DB, collection string) *PostgresStore {
	return &PostgresStore{db: db, collection: collection}
}

func (s *PostgresStore) AutoMigrate() error {
	return s.db.AutoMigrate(&documentModel{})
}

func (s *PostgresStore) Add(ctx context.Context, doc Document) (string, error) {
	model := &documentModel{
		ID:         uuid.New(),
		Collection: s.collection,
		Body:       datatypes.JSONMap(doc),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return "", err
	}
	return model.ID.String(), nil
}

func (s *PostgresStore) Query(ctx context.Context, field string, value interface{}) ([]StoredDocument, error) {
	var rows []documentModel
	err := s.db.WithContext(ctx).
		Where("collection = ?", s.collection).
		Where(datatypes.JSONQuery("body").Equals(queryText(value), field)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toStored(rows), nil
}

func (s *PostgresStore) All(ctx context.Context) ([]StoredDocument, error) {
	var rows []documentModel
	err := s.db.WithContext(ctx).
		Where("collection = ?", s.collection).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toStored(rows), nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", s.collection, docID).
		Delete(&documentModel{}).Error
}

func toStored(rows []documentModel) []StoredDocument {
	out := make([]StoredDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, StoredDocument{ID: row.ID.String(), Data: Document(row.Body)})
	}
	return out
}
