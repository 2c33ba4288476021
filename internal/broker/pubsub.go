package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/johndosdos/warbler/internal/model"
)

// EnsureStream creates the activity stream or updates it in place.
func EnsureStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectWildcard},
		MaxBytes: 1 << 30, // 1GB max storage
	})
	if err != nil {
		return nil, fmt.Errorf("internal/broker: failed to create/update stream: %w", err)
	}
	return stream, nil
}

func Publisher(ctx context.Context, js jetstream.JetStream, payload model.Activity) (uint64, error) {
	if js == nil {
		return 0, fmt.Errorf("internal/broker: jetstream interface is nil")
	}
	if ctx == nil {
		return 0, fmt.Errorf("internal/broker: context is nil")
	}

	p, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("internal/broker: could not encode payload to JSON: %w", err)
	}

	subject := Subject(payload.TargetUserID)
	pubAck, err := js.Publish(ctx,
		subject,
		p,
		jetstream.WithMsgID(uuid.NewString()),
	)
	if err != nil {
		return 0, fmt.Errorf("internal/broker: failed to publish to stream [%s]: %w", subject, err)
	}
	slog.DebugContext(ctx, "activity published",
		"type", payload.Type,
		"actor_id", payload.ActorID,
		"target_user_id", payload.TargetUserID)

	return pubAck.Sequence, nil
}

// JetStream adapts Publisher to the handlers' publisher interface.
type JetStream struct {
	JS jetstream.JetStream
}

func (p JetStream) Publish(ctx context.Context, a model.Activity) error {
	_, err := Publisher(ctx, p.JS, a)
	return err
}

// Subscriber consumes the stream with an ephemeral consumer and forwards
// decoded activities to receive until ctx is done.
func Subscriber(ctx context.Context, stream jetstream.Stream, receive chan<- model.Activity) error {
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: SubjectWildcard,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("internal/broker: failed to create or update consumer: %w", err)
	}

	consumeHandler := func(msg jetstream.Msg) {
		var payload model.Activity

		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			slog.Warn("could not decode activity", "error", err, "subject", msg.Subject())
			_ = msg.Term()
			return
		}

		_ = msg.Ack()

		select {
		case receive <- payload:
		case <-ctx.Done():
		}
	}

	optErrHandler := jetstream.ConsumeErrHandler(func(cc jetstream.ConsumeContext, err error) {
		slog.Error("consumer error", "error", err)
	})

	consumeCtx, err := consumer.Consume(consumeHandler, optErrHandler)
	if err != nil {
		return fmt.Errorf("internal/broker: failed to start consuming messages: %w", err)
	}

	go func() {
		<-ctx.Done()
		consumeCtx.Drain()
	}()

	return nil
}
