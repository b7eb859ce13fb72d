package kafka

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(Config{})
	require.Error(t, err)
}
