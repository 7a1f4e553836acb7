package records

import (
	"context"

	"github.com/cardiocare/platform/pkg/common/logger"
	"github.com/cardiocare/platform/pkg/common/models"
	"github.com/cardiocare/platform/pkg/patient"
)

// EventPublisher is satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// EventPublishingStore announces successful writes and deletes. Publishing is
// best effort: the store result stands even when the event cannot be sent.
// Patient names are not included in events.
type EventPublishingStore struct {
	Store
	publisher  EventPublisher
	collection string
}

func NewEventPublishingStore(store Store, publisher EventPublisher, collection string) *EventPublishingStore {
	return &EventPublishingStore{Store: store, publisher: publisher, collection: collection}
}

func (s *EventPublishingStore) Add(ctx context.Context, doc Document) (string, error) {
	id, err := s.Store.Add(ctx, doc)
	if err != nil {
		return "", err
	}
	data := map[string]interface{}{"record_id": id}
	if label, ok := doc[patient.PredictionKey]; ok {
		data[patient.PredictionKey] = label
	}
	s.publish(ctx, models.EventRecordAdded, data)
	return id, nil
}

func (s *EventPublishingStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, models.EventRecordDeleted, map[string]interface{}{"record_id": id})
	return nil
}

func (s *EventPublishingStore) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.PublishEvent(ctx, eventType, s.collection, data); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_type": eventType,
			"record_id":  data["record_id"],
		}).Warn("record event not published")
	}
}
