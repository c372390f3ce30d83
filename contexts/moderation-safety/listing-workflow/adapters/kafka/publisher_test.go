package kafkaadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	eventsv1 "tradepost/contracts/gen/events/v1"
)

type captureBus struct {
	topic   string
	key     string
	payload []byte
}

func (b *captureBus) Publish(_ context.Context, topic string, key string, payload []byte) error {
	b.topic = topic
	b.key = key
	b.payload = payload
	return nil
}

func TestPublishWrapsListingInEnvelope(t *testing.T) {
	bus := &captureBus{}
	client := PublishClient{Bus: bus, Topic: "tradepost.listings.published"}

	approvedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	err := client.Publish(context.Background(), entities.PublishedListing{
		PublishedItemID: "item-7",
		RequestID:       "req-7",
		SubmitterID:     "user-7",
		Section:         entities.SectionSellAds,
		FormData: entities.FormData{
			{Key: "title", Value: "Road bike"},
			{Key: "price", Value: 320},
		},
		ApprovedAt: approvedAt,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if bus.topic != "tradepost.listings.published" {
		t.Fatalf("topic: got %s", bus.topic)
	}
	if bus.key != "item-7" {
		t.Fatalf("message key: got %s, want published item id", bus.key)
	}

	var envelope eventsv1.Envelope
	if err := json.Unmarshal(bus.payload, &envelope); err != nil {
		t.Fatalf("payload is not an envelope: %v", err)
	}
	if envelope.EventType != "listing.published" {
		t.Fatalf("event type: got %s", envelope.EventType)
	}
	if envelope.SourceService != "tradepost" || envelope.SchemaVersion != 1 {
		t.Fatalf("envelope header: %+v", envelope)
	}
	if envelope.PartitionKey != "item-7" {
		t.Fatalf("partition key: got %s", envelope.PartitionKey)
	}
	if envelope.EventID == "" {
		t.Fatalf("event id must be set")
	}
	if !envelope.OccurredAt.Equal(approvedAt) {
		t.Fatalf("occurred at: got %v", envelope.OccurredAt)
	}

	var message listingMessage
	if err := json.Unmarshal(envelope.Data, &message); err != nil {
		t.Fatalf("envelope data is not a listing message: %v", err)
	}
	if message.PublishedItemID != "item-7" || message.RequestID != "req-7" || message.Section != "sell-ads" {
		t.Fatalf("listing message: %+v", message)
	}
	if string(message.FormData) != `{"title":"Road bike","price":320}` {
		t.Fatalf("form data lost its order: %s", message.FormData)
	}
}
