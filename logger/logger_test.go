package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithServiceNameAddsEnvValue(t *testing.T) {
	t.Setenv("SERVICE_NAME", "chat-api")

	fields := withServiceName(Fields{"session_id": "s1"})
	assert.Equal(t, "chat-api", fields["service_name"])
	assert.Equal(t, "s1", fields["session_id"])
}

func TestWithServiceNameKeepsExplicitValue(t *testing.T) {
	t.Setenv("SERVICE_NAME", "chat-api")

	fields := withServiceName(Fields{"service_name": "chatctl"})
	assert.Equal(t, "chatctl", fields["service_name"])
}

func TestWithServiceNameNilFields(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")

	fields := withServiceName(nil)
	assert.NotNil(t, fields)
	assert.NotContains(t, fields, "service_name")
}

func TestInitFromLevelFallsBackToInfo(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	InitFromLevel("  ")
	assert.NotNil(t, Log)

	InitFromLevel("DEBUG")
	assert.NotNil(t, Log)
}
