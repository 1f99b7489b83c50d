package kafka

import (
	"testing"
	"time"
)

func TestProducerOptionsApply(t *testing.T) {
	cfg := &ProducerConfig{}
	opts := []ProducerOption{
		WithBrokers([]string{"broker:9092"}),
		WithCompression("zstd"),
		WithRequiredAcks(-1),
		WithMaxAttempts(5),
		WithBatchSize(200),
		WithBatchBytes(2097152),
		WithBatchTimeout(2 * time.Second),
		WithTimeouts(3*time.Second, 4*time.Second),
		WithHashByKey(true),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "broker:9092" {
		t.Fatalf("brokers not applied: %v", cfg.Brokers)
	}
	if cfg.Compression != "zstd" || cfg.RequiredAcks != -1 || cfg.MaxAttempts != 5 {
		t.Fatalf("writer options not applied: %+v", cfg)
	}
	if cfg.BatchSize != 200 || cfg.BatchBytes != 2097152 || cfg.BatchTimeout != 2*time.Second {
		t.Fatalf("batch options not applied: %+v", cfg)
	}
	if cfg.WriteTimeout != 3*time.Second || cfg.ReadTimeout != 4*time.Second {
		t.Fatalf("timeouts not applied: %+v", cfg)
	}
	if !cfg.HashByKey {
		t.Fatalf("hash balancer not applied")
	}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}
