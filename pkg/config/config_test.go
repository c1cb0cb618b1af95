package config

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDump(t *testing.T) {
	count := 3
	c := Config{
		Host:               "example.com",
		Count:              &count,
		Preload:            1,
		Interval:           1.5,
		InquireWait:        10,
		InterfaceAddresses: []string{"192.0.2.1", "192.0.2.2"},
		MinPacketSize:      128,
		MaxPacketSize:      512,
		Pattern:            []byte{0xab, 0x12},
		Auth:               "secret",
		AuthDigest:         "hmac-sha256",
		AuthDigestID:       3,
		PacketLossOut:      3,
		PacketLossIn:       7,
		Debug:              true,
		Verbose:            true,
		Port:               15998,
	}

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))
	out := buf.String()

	assert.NotContains(t, out, "secret")

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "example.com", got["host"])
	assert.Equal(t, 3, got["count"])
	assert.Equal(t, 1.5, got["interval"])
	assert.Equal(t, []interface{}{"192.0.2.1", "192.0.2.2"}, got["interfaceAddresses"])
	assert.Equal(t, "ab12", got["pattern"])
	assert.Equal(t, true, got["auth"])
	assert.Equal(t, "hmac-sha256", got["authDigest"])
	assert.Equal(t, 3, got["authDigestId"])
	assert.Equal(t, 15998, got["port"])
	assert.NotContains(t, got, "deadline")
	assert.NotContains(t, got, "statsInterval")
}

func TestDumpDefaults(t *testing.T) {
	c, err := build("--listen")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["listen"])
	assert.Equal(t, "00", got["pattern"])
	assert.Equal(t, false, got["auth"])
	assert.NotContains(t, got, "host")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestDumpWriteError(t *testing.T) {
	c, err := build("example.com")
	require.NoError(t, err)

	err = c.Dump(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
