package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditpostgres "civreg/pkg/platform/audit/store/postgres"
)

type fakeOutbox struct {
	entries   []auditpostgres.Entry
	published []uuid.UUID
}

func (f *fakeOutbox) FetchUnpublished(_ context.Context, limit int) ([]auditpostgres.Entry, error) {
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, ids []uuid.UUID, _ time.Time) error {
	f.published = append(f.published, ids...)
	return nil
}

type fakeProducer struct {
	failOn int
	keys   []string
}

func (f *fakeProducer) Produce(_ context.Context, _ string, key, _ []byte) error {
	if f.failOn > 0 && len(f.keys)+1 == f.failOn {
		return errors.New("broker down")
	}
	f.keys = append(f.keys, string(key))
	return nil
}

func entries(n int) []auditpostgres.Entry {
	out := make([]auditpostgres.Entry, n)
	for i := range out {
		out[i] = auditpostgres.Entry{ID: uuid.New(), AggregateID: "case-" + string(rune('a'+i)), Payload: []byte("{}")}
	}
	return out
}

func TestPublishBatch(t *testing.T) {
	t.Run("publishes every entry in order", func(t *testing.T) {
		outbox := &fakeOutbox{entries: entries(3)}
		producer := &fakeProducer{}
		w := NewWorker(outbox, producer, "civreg.audit")

		n, err := w.PublishBatch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"case-a", "case-b", "case-c"}, producer.keys)
		assert.Len(t, outbox.published, 3)
	})

	t.Run("stops at first producer failure", func(t *testing.T) {
		outbox := &fakeOutbox{entries: entries(3)}
		producer := &fakeProducer{failOn: 2}
		w := NewWorker(outbox, producer, "civreg.audit")

		n, err := w.PublishBatch(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, []uuid.UUID{outbox.entries[0].ID}, outbox.published)
	})

	t.Run("respects batch size", func(t *testing.T) {
		outbox := &fakeOutbox{entries: entries(5)}
		w := NewWorker(outbox, &fakeProducer{}, "civreg.audit", WithBatchSize(2))

		n, err := w.PublishBatch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
