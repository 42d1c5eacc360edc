package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/events"
)

// putEventsLimit is the EventBridge cap on entries per PutEvents call.
const putEventsLimit = 10

// putEventsAPI is the slice of the EventBridge client the publisher needs.
type putEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventBus using AWS EventBridge.
type Publisher struct {
	client       putEventsAPI
	eventBusName string
	source       string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventBus {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		source:       events.SourceBackend,
		logger:       logger,
	}
}

// Publish sends events to EventBridge in batches of at most ten.
func (p *Publisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for start := 0; start < len(evts); start += putEventsLimit {
		end := start + putEventsLimit
		if end > len(evts) {
			end = len(evts)
		}
		if err := p.putBatch(ctx, evts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) putBatch(ctx context.Context, evts []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(evts))
	// kept stays aligned with entries so result entries map back to events
	// even when some events fail to marshal
	kept := make([]events.DomainEvent, 0, len(evts))
	for _, event := range evts {
		detail, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("failed to marshal event",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err),
			)
			continue
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
		})
		kept = append(kept, event)
	}
	if len(entries) == 0 {
		return nil
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("publishing events: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("event entry rejected",
					zap.String("event_type", kept[i].GetEventType()),
					zap.String("error_code", aws.ToString(entry.ErrorCode)),
					zap.String("error_message", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d of %d events failed to publish", result.FailedEntryCount, len(entries))
	}
	return nil
}
