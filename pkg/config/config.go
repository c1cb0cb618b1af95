// Package config provides the resolved twoping configuration handed to the
// probing engine.
package config

import (
	"encoding/hex"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Protocol constants used while deriving the configuration.
const (
	// HeaderSize is the fixed protocol overhead added to a ping-style
	// payload size given with --packetsize-compat.
	HeaderSize = 8

	// MinimumPacketSize is the smallest accepted maximum packet size.
	MinimumPacketSize = 64
)

// Config is the fully validated configuration for one invocation. It is
// built once by Build and passed by value; nothing downstream modifies it.
type Config struct {
	// Host is the peer to ping. Empty only in listen mode.
	Host string `yaml:"host,omitempty"`

	// Listen enables listen mode.
	Listen bool `yaml:"listen"`

	// Count is the number of pings to send, nil for unlimited.
	Count *int `yaml:"count,omitempty"`

	// Preload is the number of pings sent at start.
	Preload int `yaml:"preload"`

	// Interval is the time between pings in seconds.
	Interval float64 `yaml:"interval"`

	// Deadline is the maximum run time in seconds, nil for none.
	Deadline *float64 `yaml:"deadline,omitempty"`

	// InquireWait is the maximum time in seconds before loss inquiries.
	InquireWait float64 `yaml:"inquireWait"`

	// StatsInterval is the period in seconds of recurring statistics, nil
	// when disabled.
	StatsInterval *float64 `yaml:"statsInterval,omitempty"`

	// InterfaceAddresses are bind addresses in command-line order.
	InterfaceAddresses []string `yaml:"interfaceAddresses,omitempty"`

	// MinPacketSize and MaxPacketSize bound the size of sent packets in bytes.
	MinPacketSize int `yaml:"minPacketSize"`
	MaxPacketSize int `yaml:"maxPacketSize"`

	// PacketsizeCompat is the ping-style payload size, if given.
	PacketsizeCompat *int `yaml:"packetsizeCompat,omitempty"`

	// Pattern pads ping payloads; 1 to 16 bytes.
	Pattern []byte `yaml:"-"`

	// Auth is the shared HMAC secret, empty when authentication is off.
	Auth string `yaml:"-"`

	// AuthDigest is the digest name and AuthDigestID its protocol id.
	AuthDigest   string `yaml:"authDigest"`
	AuthDigestID int    `yaml:"authDigestId"`

	// PacketLossOut and PacketLossIn are simulated loss percentages.
	PacketLossOut float64 `yaml:"packetLossOut"`
	PacketLossIn  float64 `yaml:"packetLossIn"`

	IPv4              bool `yaml:"ipv4"`
	IPv6              bool `yaml:"ipv6"`
	Audible           bool `yaml:"audible"`
	Adaptive          bool `yaml:"adaptive"`
	Flood             bool `yaml:"flood"`
	Quiet             bool `yaml:"quiet"`
	Verbose           bool `yaml:"verbose"`
	Debug             bool `yaml:"debug"`
	No3Way            bool `yaml:"no3way"`
	NoMatchPacketSize bool `yaml:"noMatchPacketSize"`
	NoSendVersion     bool `yaml:"noSendVersion"`

	// Notice is arbitrary text passed to peers.
	Notice string `yaml:"notice,omitempty"`

	// Port is the UDP port to connect or bind to.
	Port int `yaml:"port"`
}

// dump is the YAML view of Config. Binary and secret fields are rendered
// separately.
type dump struct {
	Config  `yaml:",inline"`
	Pattern string `yaml:"pattern"`
	Auth    bool   `yaml:"auth"`
}

// Dump writes c as YAML. The pattern is rendered as hex and the auth key is
// reduced to whether one is set.
func (c Config) Dump(w io.Writer) error {
	data, err := yaml.Marshal(dump{
		Config:  c,
		Pattern: hex.EncodeToString(c.Pattern),
		Auth:    c.Auth != "",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
