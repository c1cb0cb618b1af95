package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/irctrakz/twoping/pkg/cli"
)

// ErrHelpRequested is returned by Build when neither a host nor listen mode
// was given. The caller prints usage and exits successfully.
var ErrHelpRequested = errors.New("no host given and not in listen mode")

// ValidationError reports a semantic rule violated by an otherwise well
// formed invocation.
type ValidationError struct {
	Field  string // flag the error refers to, e.g. "--pattern"
	Value  string // offending value, if any
	Reason string
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("argument %s: %s", e.Field, msg)
	}
	return msg
}

// DigestID returns the protocol identifier of an --auth-digest name.
func DigestID(name string) (int, bool) {
	switch name {
	case "hmac-md5":
		return 1, true
	case "hmac-sha1":
		return 2, true
	case "hmac-sha256":
		return 3, true
	case "hmac-crc32":
		return 4, true
	}
	return 0, false
}

// maxPatternLen is the longest accepted hex pattern, in characters.
const maxPatternLen = 32

// Build validates raw parser output and derives the final configuration.
func Build(f cli.Fields) (Config, error) {
	c := Config{
		Host:              f.String(cli.HostField),
		Listen:            f.Bool("listen"),
		Preload:           f.Int("preload"),
		Interval:          f.Float("interval"),
		InquireWait:       f.Float("inquire_wait"),
		MinPacketSize:     f.Int("min_packet_size"),
		MaxPacketSize:     f.Int("max_packet_size"),
		Auth:              f.String("auth"),
		AuthDigest:        f.String("auth_digest"),
		IPv4:              f.Bool("ipv4"),
		IPv6:              f.Bool("ipv6"),
		Audible:           f.Bool("audible"),
		Adaptive:          f.Bool("adaptive"),
		Flood:             f.Bool("flood"),
		Quiet:             f.Bool("quiet"),
		Verbose:           f.Bool("verbose"),
		Debug:             f.Bool("debug"),
		No3Way:            f.Bool("no_3way"),
		NoMatchPacketSize: f.Bool("no_match_packet_size"),
		NoSendVersion:     f.Bool("no_send_version"),
		Notice:            f.String("notice"),
		Port:              f.Int("port"),
	}

	if c.Host == "" && !c.Listen {
		return Config{}, ErrHelpRequested
	}

	if f.Has("count") {
		v := f.Int("count")
		c.Count = &v
	}
	if f.Has("deadline") {
		v := f.Float("deadline")
		c.Deadline = &v
	}
	if f.Has("stats") {
		v := f.Float("stats")
		c.StatsInterval = &v
	}
	if addrs := f.Strings("interface_address"); len(addrs) > 0 {
		c.InterfaceAddresses = append([]string(nil), addrs...)
	}

	if f.Has("packetsize_compat") {
		v := f.Int("packetsize_compat")
		if v > math.MaxInt-HeaderSize {
			return Config{}, &ValidationError{
				Field:  "--packetsize-compat",
				Value:  strconv.Itoa(v),
				Reason: "packet size too large",
			}
		}
		c.PacketsizeCompat = &v
		c.MinPacketSize = v + HeaderSize
	}
	if c.MaxPacketSize < c.MinPacketSize {
		return Config{}, &ValidationError{
			Field:  "--max-packet-size",
			Reason: "maximum packet size must be at least minimum packet size",
		}
	}
	if c.MaxPacketSize < MinimumPacketSize {
		return Config{}, &ValidationError{
			Field:  "--max-packet-size",
			Reason: fmt.Sprintf("maximum packet size must be at least %d", MinimumPacketSize),
		}
	}

	var err error
	c.PacketLossOut, c.PacketLossIn, err = ParsePacketLoss(f.String("packet_loss"))
	if err != nil {
		return Config{}, err
	}

	c.Pattern, err = DecodePattern(f.String("pattern"))
	if err != nil {
		return Config{}, err
	}

	// The schema restricts --auth-digest to the table's keys.
	c.AuthDigestID, _ = DigestID(c.AuthDigest)

	if c.Debug {
		c.Verbose = true
	}

	return c, nil
}

// ParsePacketLoss parses an OUT:IN or single symmetric loss percentage. An
// empty specifier means no simulated loss.
func ParsePacketLoss(spec string) (out, in float64, err error) {
	if spec == "" {
		return 0, 0, nil
	}
	if l, r, ok := strings.Cut(spec, ":"); ok {
		if out, err = parsePercent(l); err != nil {
			return 0, 0, err
		}
		if in, err = parsePercent(r); err != nil {
			return 0, 0, err
		}
		return out, in, nil
	}
	v, err := parsePercent(spec)
	if err != nil {
		return 0, 0, err
	}
	return v, v, nil
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ValidationError{
			Field:  "--packet-loss",
			Value:  s,
			Reason: "invalid packet loss value",
		}
	}
	return v, nil
}

// DecodePattern decodes a hex padding pattern of at most 16 bytes. An empty
// pattern yields a single zero byte.
func DecodePattern(pattern string) ([]byte, error) {
	if pattern == "" {
		return []byte{0}, nil
	}
	if len(pattern)%2 != 0 {
		return nil, &ValidationError{Field: "--pattern", Value: pattern, Reason: "pattern must be full bytes"}
	}
	if len(pattern) > maxPatternLen {
		return nil, &ValidationError{Field: "--pattern", Value: pattern, Reason: "pattern must be 16 bytes or less"}
	}
	out := make([]byte, 0, len(pattern)/2)
	for i := 0; i < len(pattern); i += 2 {
		pair := pattern[i : i+2]
		b, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return nil, &ValidationError{
				Field:  "--pattern",
				Value:  pattern,
				Reason: fmt.Sprintf("invalid hex byte %q in pattern", pair),
			}
		}
		out = append(out, byte(b))
	}
	return out, nil
}
