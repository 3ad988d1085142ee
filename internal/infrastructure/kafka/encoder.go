package kafka

import (
	"time"

	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/clock"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEventEncoder сериализует события outbox в protobuf Struct:
// {event_type, aggregate_id, occurred_at, data}.
type ProtoEventEncoder struct {
	clock clock.Clock
}

func NewProtoEventEncoder(c clock.Clock) *ProtoEventEncoder {
	if c == nil {
		c = clock.System()
	}
	return &ProtoEventEncoder{clock: c}
}

func (p *ProtoEventEncoder) Encode(eventType usecase.OutboxEventType, aggregateID string, fields map[string]any) ([]byte, error) {
	data, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	event := &structpb.Struct{Fields: map[string]*structpb.Value{
		"event_type":   structpb.NewStringValue(string(eventType)),
		"aggregate_id": structpb.NewStringValue(aggregateID),
		"occurred_at":  structpb.NewStringValue(p.clock.Now().UTC().Format(time.RFC3339Nano)),
		"data":         structpb.NewStructValue(data),
	}}

	payload, err := proto.MarshalOptions{Deterministic: true}.Marshal(event)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return payload, nil
}

// DecodeEvent разбирает payload, записанный ProtoEventEncoder.
func DecodeEvent(payload []byte) (*structpb.Struct, error) {
	var event structpb.Struct
	if err := proto.Unmarshal(payload, &event); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return &event, nil
}
