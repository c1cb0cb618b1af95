package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFlagNames(t *testing.T) {
	s := DefaultSchema()

	tests := []struct {
		name    string
		short   string
		kind    Kind
		def     interface{}
		dest    string
		choices []string
	}{
		{"version", "V", KindBool, false, "", nil},
		{"audible", "a", KindBool, false, "audible", nil},
		{"adaptive", "A", KindBool, false, "adaptive", nil},
		{"count", "c", KindInt, nil, "count", nil},
		{"flood", "f", KindBool, false, "flood", nil},
		{"interval", "i", KindFloat, 1.0, "interval", nil},
		{"interface-address", "I", KindStringList, nil, "interface_address", nil},
		{"preload", "l", KindInt, 1, "preload", nil},
		{"pattern", "p", KindString, nil, "pattern", nil},
		{"quiet", "q", KindBool, false, "quiet", nil},
		{"packetsize-compat", "s", KindInt, nil, "packetsize_compat", nil},
		{"verbose", "v", KindBool, false, "verbose", nil},
		{"deadline", "w", KindFloat, nil, "deadline", nil},
		{"auth", "", KindString, nil, "auth", nil},
		{"auth-digest", "", KindString, "hmac-md5", "auth_digest", []string{"hmac-md5", "hmac-sha1", "hmac-sha256", "hmac-crc32"}},
		{"debug", "", KindBool, false, "debug", nil},
		{"inquire-wait", "", KindFloat, 10.0, "inquire_wait", nil},
		{"ipv4", "4", KindBool, false, "ipv4", nil},
		{"ipv6", "6", KindBool, false, "ipv6", nil},
		{"listen", "", KindBool, false, "listen", nil},
		{"max-packet-size", "", KindInt, 512, "max_packet_size", nil},
		{"min-packet-size", "", KindInt, 128, "min_packet_size", nil},
		{"no-3way", "", KindBool, false, "no_3way", nil},
		{"no-match-packet-size", "", KindBool, false, "no_match_packet_size", nil},
		{"no-send-version", "", KindBool, false, "no_send_version", nil},
		{"notice", "", KindString, nil, "notice", nil},
		{"packet-loss", "", KindString, nil, "packet_loss", nil},
		{"port", "", KindInt, 15998, "port", nil},
		{"stats", "", KindFloat, nil, "stats", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, ok := s.Lookup(tt.name)
			require.True(t, ok, "option %s missing", tt.name)
			assert.Equal(t, tt.short, o.Short)
			assert.Equal(t, tt.kind, o.Kind)
			assert.Equal(t, tt.def, o.Default)
			assert.Equal(t, tt.dest, o.Dest)
			assert.Equal(t, tt.choices, o.Choices)
			assert.False(t, o.Hidden)
		})
	}
}

func TestSchemaIgnoredFlags(t *testing.T) {
	s := DefaultSchema()

	for _, c := range []string{"b", "B", "d", "L", "n", "R", "r", "U"} {
		o, ok := s.LookupShort(c)
		require.True(t, ok, "-%s missing", c)
		assert.Equal(t, c, o.Short)
		assert.Equal(t, KindBool, o.Kind)
		assert.True(t, o.Hidden)
		assert.Empty(t, o.Dest)
	}
	for _, c := range []string{"F", "Q", "S", "t", "T", "M", "W"} {
		o, ok := s.LookupShort(c)
		require.True(t, ok, "-%s missing", c)
		assert.Equal(t, c, o.Short)
		assert.Equal(t, KindString, o.Kind)
		assert.True(t, o.Hidden)
		assert.Empty(t, o.Dest)
	}
}

func TestSchemaUnique(t *testing.T) {
	names := map[string]bool{}
	shorts := map[string]bool{}
	for _, o := range DefaultSchema() {
		assert.False(t, names[o.Name], "duplicate name %s", o.Name)
		names[o.Name] = true
		if o.Short == "" {
			continue
		}
		assert.Len(t, o.Short, 1)
		assert.False(t, shorts[o.Short], "duplicate short -%s", o.Short)
		shorts[o.Short] = true
	}
}

func TestDefaultSchemaIsCopy(t *testing.T) {
	s := DefaultSchema()
	s[0].Name = "changed"

	o, ok := DefaultSchema().Lookup(VersionFlag)
	require.True(t, ok)
	assert.Equal(t, "V", o.Short)
}

func TestDefaultSchemaCopiesChoices(t *testing.T) {
	s := DefaultSchema()
	o, ok := s.Lookup("auth-digest")
	require.True(t, ok)
	o.Choices[0] = "hmac-none"

	o, ok = DefaultSchema().Lookup("auth-digest")
	require.True(t, ok)
	assert.Equal(t, "hmac-md5", o.Choices[0])
}

func TestSchemaLookupShort(t *testing.T) {
	s := DefaultSchema()

	o, ok := s.LookupShort("I")
	require.True(t, ok)
	assert.Equal(t, "interface-address", o.Name)

	_, ok = s.LookupShort("z")
	assert.False(t, ok)
	_, ok = s.LookupShort("")
	assert.False(t, ok)
}

func TestRegisterHidesCompatFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, DefaultSchema().Register(fs))

	usage := fs.FlagUsages()
	assert.Contains(t, usage, "--interface-address")
	assert.Contains(t, usage, "--packet-loss")
	assert.Contains(t, usage, "-4, --ipv4")
	assert.Contains(t, usage, "hmac-sha256")
	assert.Contains(t, usage, "15998")
	assert.NotContains(t, usage, "\x00")

	f := fs.ShorthandLookup("W")
	require.NotNil(t, f)
	assert.True(t, f.Hidden)
}

func TestRegisterUnknownKind(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := Schema{{Name: "bad", Kind: Kind(99)}}.Register(fs)
	assert.Error(t, err)
}
