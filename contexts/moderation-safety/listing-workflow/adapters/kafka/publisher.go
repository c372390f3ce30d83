package kafkaadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	eventsv1 "tradepost/contracts/gen/events/v1"
)

// Bus is the broker hand-off; the platform Kafka writer satisfies it.
type Bus interface {
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// PublishClient forwards approved listings to the marketplace topic. The
// downstream publisher owns visibility; this side only guarantees delivery
// to the broker.
type PublishClient struct {
	Bus   Bus
	Topic string
}

type listingMessage struct {
	PublishedItemID string          `json:"publishedItemId"`
	RequestID       string          `json:"requestId"`
	SubmitterID     string          `json:"submitterId"`
	Section         string          `json:"section"`
	FormData        json.RawMessage `json:"formData"`
	ApprovedAt      time.Time       `json:"approvedAt"`
}

func (c PublishClient) Publish(ctx context.Context, listing entities.PublishedListing) error {
	form, err := json.Marshal(listing.FormData)
	if err != nil {
		return fmt.Errorf("encode listing form data: %w", err)
	}
	data, err := json.Marshal(listingMessage{
		PublishedItemID: listing.PublishedItemID,
		RequestID:       listing.RequestID,
		SubmitterID:     listing.SubmitterID,
		Section:         string(listing.Section),
		FormData:        form,
		ApprovedAt:      listing.ApprovedAt,
	})
	if err != nil {
		return fmt.Errorf("encode listing message: %w", err)
	}
	payload, err := json.Marshal(eventsv1.Envelope{
		EventID:       uuid.NewString(),
		EventType:     "listing.published",
		OccurredAt:    listing.ApprovedAt,
		SourceService: "tradepost",
		SchemaVersion: 1,
		PartitionKey:  listing.PublishedItemID,
		Data:          data,
	})
	if err != nil {
		return fmt.Errorf("encode event envelope: %w", err)
	}
	return c.Bus.Publish(ctx, c.Topic, listing.PublishedItemID, payload)
}
