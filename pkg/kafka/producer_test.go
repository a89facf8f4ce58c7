package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProducer(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	assert.NotNil(t, p)
	assert.Empty(t, p.writers)
}

func TestGetOrCreateWriterReuses(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	w1 := p.writer("remit.remittances")
	w2 := p.writer("remit.remittances")
	assert.Same(t, w1, w2)

	w3 := p.writer("remit.other")
	assert.NotSame(t, w1, w3)
	assert.Len(t, p.writers, 2)
}

func TestCloseResetsWriters(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	p.writer("remit.remittances")

	err := p.Close()
	assert.NoError(t, err)
	assert.Empty(t, p.writers)
}
