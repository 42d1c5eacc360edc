package eventbridge

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mugenreco-backend/domain/events"
)

type fakePutEventsAPI struct {
	calls  []*eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
}

func (f *fakePutEventsAPI) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.calls = append(f.calls, params)
	if f.output != nil {
		return f.output, nil
	}
	return &eventbridge.PutEventsOutput{
		Entries: make([]types.PutEventsResultEntry, len(params.Entries)),
	}, nil
}

// channels cannot be serialized, so this event always fails to marshal
type unserializableEvent struct {
	events.BaseEvent
	Broken chan int `json:"broken"`
}

func newTestPublisher(client putEventsAPI, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: "test-bus",
		source:       events.SourceBackend,
		logger:       logger,
	}
}

func TestPublisherBatchesEvents(t *testing.T) {
	fake := &fakePutEventsAPI{}
	pub := newTestPublisher(fake, zap.NewNop())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	evts := make([]events.DomainEvent, 0, 12)
	for i := 0; i < 12; i++ {
		evts = append(evts, events.NewPostCreated("p-1", "alice", "MOVIE", now))
	}

	require.NoError(t, pub.Publish(context.Background(), evts...))
	require.Len(t, fake.calls, 2)
	assert.Len(t, fake.calls[0].Entries, 10)
	assert.Len(t, fake.calls[1].Entries, 2)
	assert.Equal(t, "test-bus", aws.ToString(fake.calls[0].Entries[0].EventBusName))
	assert.Equal(t, events.SourceBackend, aws.ToString(fake.calls[0].Entries[0].Source))
}

func TestPublisherRejectedEntryNamesRightEvent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bad := unserializableEvent{
		BaseEvent: events.BaseEvent{AggregateID: "p-0", EventType: "post.broken", Timestamp: now, Version: 1},
		Broken:    make(chan int),
	}
	created := events.NewPostCreated("p-1", "alice", "MOVIE", now)
	deleted := events.NewPostDeleted("p-2", 3, now)

	// the broken event never reaches the bus, so the result entries line up
	// with [created, deleted] and the rejection hits index 1
	fake := &fakePutEventsAPI{output: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{
			{EventId: aws.String("e-1")},
			{ErrorCode: aws.String("ThrottlingException"), ErrorMessage: aws.String("slow down")},
		},
	}}

	core, logs := observer.New(zap.DebugLevel)
	pub := newTestPublisher(fake, zap.New(core))

	err := pub.Publish(context.Background(), bad, created, deleted)
	require.Error(t, err)
	require.Len(t, fake.calls, 1)
	require.Len(t, fake.calls[0].Entries, 2)

	marshalFailures := logs.FilterMessage("failed to marshal event").All()
	require.Len(t, marshalFailures, 1)
	assert.Equal(t, "post.broken", marshalFailures[0].ContextMap()["event_type"])

	rejections := logs.FilterMessage("event entry rejected").All()
	require.Len(t, rejections, 1)
	assert.Equal(t, deleted.GetEventType(), rejections[0].ContextMap()["event_type"])
}

func TestPublisherSkipsWhenNothingMarshals(t *testing.T) {
	fake := &fakePutEventsAPI{}
	pub := newTestPublisher(fake, zap.NewNop())

	bad := unserializableEvent{
		BaseEvent: events.BaseEvent{EventType: "post.broken", Timestamp: time.Now(), Version: 1},
		Broken:    make(chan int),
	}

	require.NoError(t, pub.Publish(context.Background(), bad))
	assert.Empty(t, fake.calls)
}
