// Package cli declares the twoping command-line options and parses argument
// vectors into raw, typed fields.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Kind is the value type of an option.
type Kind int

// Option kinds
const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindStringList
)

// Option describes one command-line flag.
type Option struct {
	// Name is the long form, without dashes.
	Name string

	// Short is the single-character form, or "".
	Short string

	// Dest is the canonical field name in Fields. Options with an empty Dest
	// are handled by the command itself and are never collected.
	Dest string

	Kind Kind

	// Default is the value used when the flag is absent. nil means the field
	// is optional and stays absent from Fields.
	Default interface{}

	// Choices restricts a string option to a closed set.
	Choices []string

	Usage string

	// Hidden options are accepted for compatibility with ping, kept out of
	// help output and discarded.
	Hidden bool
}

// Schema is the ordered set of options accepted by twoping.
type Schema []Option

// HostField is the Fields key of the positional host argument.
const HostField = "host"

// VersionFlag is the long name of the version flag.
const VersionFlag = "version"

// compatName prefixes the long names of the hidden ping flags. pflag needs a
// long name for every flag; argv entries cannot contain NUL, so these can
// only ever be reached through their single-letter form.
const compatName = "\x00compat-"

// Digest names accepted by --auth-digest.
var digestChoices = []string{"hmac-md5", "hmac-sha1", "hmac-sha256", "hmac-crc32"}

var options = Schema{
	{Name: VersionFlag, Short: "V", Kind: KindBool, Default: false, Usage: "report the program version"},

	// ping-compatible options
	{Name: "audible", Short: "a", Dest: "audible", Kind: KindBool, Default: false, Usage: "audible ping"},
	{Name: "adaptive", Short: "A", Dest: "adaptive", Kind: KindBool, Default: false, Usage: "adaptive RTT ping"},
	{Name: "count", Short: "c", Dest: "count", Kind: KindInt, Usage: "number of pings to send"},
	{Name: "flood", Short: "f", Dest: "flood", Kind: KindBool, Default: false, Usage: "flood mode"},
	{Name: "interval", Short: "i", Dest: "interval", Kind: KindFloat, Default: 1.0, Usage: "seconds between pings"},
	{Name: "interface-address", Short: "I", Dest: "interface_address", Kind: KindStringList, Usage: "interface bind address (repeatable)"},
	{Name: "preload", Short: "l", Dest: "preload", Kind: KindInt, Default: 1, Usage: "number of pings to send at start"},
	{Name: "pattern", Short: "p", Dest: "pattern", Kind: KindString, Usage: "hex pattern for padding"},
	{Name: "quiet", Short: "q", Dest: "quiet", Kind: KindBool, Default: false, Usage: "quiet mode"},
	{Name: "packetsize-compat", Short: "s", Dest: "packetsize_compat", Kind: KindInt, Usage: "packet size in bytes (ping compatible)"},
	{Name: "verbose", Short: "v", Dest: "verbose", Kind: KindBool, Default: false, Usage: "verbose mode"},
	{Name: "deadline", Short: "w", Dest: "deadline", Kind: KindFloat, Usage: "maximum run time in seconds"},

	// 2ping options
	{Name: "auth", Dest: "auth", Kind: KindString, Usage: "HMAC authentication key"},
	{Name: "auth-digest", Dest: "auth_digest", Kind: KindString, Default: "hmac-md5", Choices: digestChoices, Usage: "HMAC authentication digest"},
	{Name: "debug", Dest: "debug", Kind: KindBool, Default: false, Usage: "debug mode"},
	{Name: "inquire-wait", Dest: "inquire_wait", Kind: KindFloat, Default: 10.0, Usage: "maximum seconds before loss inquiries"},
	{Name: "ipv4", Short: "4", Dest: "ipv4", Kind: KindBool, Default: false, Usage: "force IPv4"},
	{Name: "ipv6", Short: "6", Dest: "ipv6", Kind: KindBool, Default: false, Usage: "force IPv6"},
	{Name: "listen", Dest: "listen", Kind: KindBool, Default: false, Usage: "listen mode"},
	{Name: "max-packet-size", Dest: "max_packet_size", Kind: KindInt, Default: 512, Usage: "maximum packet size in bytes"},
	{Name: "min-packet-size", Dest: "min_packet_size", Kind: KindInt, Default: 128, Usage: "minimum packet size in bytes"},
	{Name: "no-3way", Dest: "no_3way", Kind: KindBool, Default: false, Usage: "do not send 3-way pings"},
	{Name: "no-match-packet-size", Dest: "no_match_packet_size", Kind: KindBool, Default: false, Usage: "do not match packet size of peer"},
	{Name: "no-send-version", Dest: "no_send_version", Kind: KindBool, Default: false, Usage: "do not send program version to peers"},
	{Name: "notice", Dest: "notice", Kind: KindString, Usage: "arbitrary notice text"},
	{Name: "packet-loss", Dest: "packet_loss", Kind: KindString, Usage: "percentage simulated packet loss (OUT:IN or PCT)"},
	{Name: "port", Dest: "port", Kind: KindInt, Default: 15998, Usage: "port to connect / bind to"},
	{Name: "stats", Dest: "stats", Kind: KindFloat, Usage: "print recurring statistics every N seconds"},

	// ping options accepted and discarded
	{Name: compatName + "b", Short: "b", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "B", Short: "B", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "d", Short: "d", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "L", Short: "L", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "n", Short: "n", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "R", Short: "R", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "r", Short: "r", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "U", Short: "U", Kind: KindBool, Default: false, Hidden: true},
	{Name: compatName + "F", Short: "F", Kind: KindString, Default: "", Hidden: true},
	{Name: compatName + "Q", Short: "Q", Kind: KindString, Default: "", Hidden: true},
	{Name: compatName + "S", Short: "S", Kind: KindString, Default: "", Hidden: true},
	{Name: compatName + "t", Short: "t", Kind: KindString, Default: "", Hidden: true},
	{Name: compatName + "T", Short: "T", Kind: KindString, Default: "", Hidden: true},
	{Name: compatName + "M", Short: "M", Kind: KindString, Default: "", Hidden: true},
	{Name: compatName + "W", Short: "W", Kind: KindString, Default: "", Hidden: true},
}

// DefaultSchema returns a copy of the twoping option table.
func DefaultSchema() Schema {
	s := make(Schema, len(options))
	copy(s, options)
	for i := range s {
		if s[i].Choices != nil {
			s[i].Choices = append([]string(nil), s[i].Choices...)
		}
	}
	return s
}

// LookupShort returns the option with the given single-character form.
func (s Schema) LookupShort(short string) (Option, bool) {
	for _, o := range s {
		if o.Short != "" && o.Short == short {
			return o, true
		}
	}
	return Option{}, false
}

// Lookup returns the option with the given long name.
func (s Schema) Lookup(name string) (Option, bool) {
	for _, o := range s {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Register defines every option of the schema on fs. Hidden options are
// registered and then marked hidden so they parse but never show in help.
func (s Schema) Register(fs *pflag.FlagSet) error {
	fs.SortFlags = false
	for _, o := range s {
		switch o.Kind {
		case KindBool:
			def, _ := o.Default.(bool)
			fs.BoolP(o.Name, o.Short, def, o.Usage)
		case KindInt:
			def, _ := o.Default.(int)
			fs.VarP(newDecimalValue(def), o.Name, o.Short, o.Usage)
		case KindFloat:
			def, _ := o.Default.(float64)
			fs.Float64P(o.Name, o.Short, def, o.Usage)
		case KindString:
			def, _ := o.Default.(string)
			fs.StringP(o.Name, o.Short, def, o.usage())
		case KindStringList:
			fs.StringArrayP(o.Name, o.Short, nil, o.Usage)
		default:
			return fmt.Errorf("option %s: unknown kind %d", o.Name, o.Kind)
		}
		if o.Hidden {
			if err := fs.MarkHidden(o.Name); err != nil {
				return fmt.Errorf("option %s: %w", o.Name, err)
			}
		}
	}
	return nil
}

func (o Option) usage() string {
	if len(o.Choices) == 0 {
		return o.Usage
	}
	return fmt.Sprintf("%s %v", o.Usage, o.Choices)
}

func (o Option) allows(v string) bool {
	if len(o.Choices) == 0 {
		return true
	}
	for _, c := range o.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// flagName renders the option the way a user would type it.
func (o Option) flagName() string {
	return "--" + o.Name
}

// decimalValue is an int flag that only accepts base 10. pflag's own int
// flag also takes 0x and leading-zero octal forms.
type decimalValue int

func newDecimalValue(def int) *decimalValue {
	v := decimalValue(def)
	return &v
}

func (d *decimalValue) Set(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = decimalValue(v)
	return nil
}

func (d *decimalValue) String() string {
	return strconv.Itoa(int(*d))
}

// Type matches pflag's int flag so FlagSet.GetInt and help output work
// unchanged.
func (d *decimalValue) Type() string {
	return "int"
}
