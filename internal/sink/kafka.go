package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/sustainai/hazard-risk/internal/config"
	"github.com/sustainai/hazard-risk/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher produces one message per record of a committed snapshot.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, snap models.Snapshot) error {
	if len(snap.Records) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(snap.Records))
	for i := range snap.Records {
		msg, err := recordMessage(snap, snap.Records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func recordMessage(snap models.Snapshot, r models.RiskRecord) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %s: %w", r.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(r.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard_type", Value: []byte(r.Type)},
			{Key: "cycle_id", Value: []byte(snap.CycleID)},
			{Key: "refreshed_at", Value: []byte(snap.RefreshedAt.Format(time.RFC3339))},
		},
	}, nil
}
