//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"civreg/internal/platform/kafka"
	"civreg/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *kafka.Producer
}

func TestProducerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redpanda = mgr.GetRedpanda(s.T())
	producer, err := kafka.NewProducer(kafka.Config{Brokers: s.redpanda.Brokers})
	s.Require().NoError(err)
	s.producer = producer
}

func (s *ProducerSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *ProducerSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.producer.EnsureTopic(ctx, "audit.idempotent", 1, 1))
	s.Require().NoError(s.producer.EnsureTopic(ctx, "audit.idempotent", 1, 1))
}

func (s *ProducerSuite) TestProduceIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	const topic = "audit.produce"
	s.Require().NoError(s.producer.EnsureTopic(ctx, topic, 1, 1))
	s.Require().NoError(s.producer.Produce(ctx, topic, []byte("case-1"), []byte(`{"action":"registration_started"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().NotEmpty(records)
	s.Equal("case-1", string(records[0].Key))
	s.JSONEq(`{"action":"registration_started"}`, string(records[0].Value))
}
