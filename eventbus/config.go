package eventbus

import (
	"errors"
	"os"
)

// ErrBrokersNotConfigured 는 KAFKA_BOOTSTRAP_SERVERS 가 비어 있을 때 반환됩니다.
var ErrBrokersNotConfigured = errors.New("KAFKA_BOOTSTRAP_SERVERS environment variable is required")

// GetBrokers returns Kafka bootstrap servers from env KAFKA_BOOTSTRAP_SERVERS
func GetBrokers() (string, error) {
	v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if v == "" {
		return "", ErrBrokersNotConfigured
	}
	return v, nil
}
