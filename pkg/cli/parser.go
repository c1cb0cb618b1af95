package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

var (
	// ErrHelp is returned by Parse when -h or --help was given.
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned by Parse when --version was given.
	ErrVersion = errors.New("version requested")
)

// UsageError reports a malformed invocation: an unknown flag, a missing or
// badly typed value, or an unexpected positional argument.
type UsageError struct {
	Flag string // e.g. "--count"; empty when pflag already names it
	Err  error
}

func (e *UsageError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("argument %s: %v", e.Flag, e.Err)
	}
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Fields is the raw result of parsing, keyed by canonical field name.
// Options with a default are always present; optional ones only when given.
type Fields map[string]interface{}

// Has reports whether key was given or defaulted.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the string field key, or "" when absent.
func (f Fields) String(key string) string {
	v, _ := f[key].(string)
	return v
}

// Int returns the int field key, or 0 when absent.
func (f Fields) Int(key string) int {
	v, _ := f[key].(int)
	return v
}

// Float returns the float field key, or 0 when absent.
func (f Fields) Float(key string) float64 {
	v, _ := f[key].(float64)
	return v
}

// Bool returns the boolean field key, or false when absent.
func (f Fields) Bool(key string) bool {
	v, _ := f[key].(bool)
	return v
}

// Strings returns the list field key, or nil when absent.
func (f Fields) Strings(key string) []string {
	v, _ := f[key].([]string)
	return v
}

// NewFlagSet returns a flag set with every option of s registered. Parse
// errors are returned, never printed.
func (s Schema) NewFlagSet(name string) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := s.Register(fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// Parse parses args against s and collects the result.
func Parse(s Schema, args []string) (Fields, error) {
	fs, err := s.NewFlagSet("twoping")
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, &UsageError{Err: err}
	}
	if v, _ := fs.GetBool(VersionFlag); v {
		return nil, ErrVersion
	}
	return Collect(s, fs, fs.Args())
}

// Collect reads the options of s out of an already parsed fs. positionals
// holds the non-flag arguments; at most one, the host, is accepted.
func Collect(s Schema, fs *pflag.FlagSet, positionals []string) (Fields, error) {
	if len(positionals) > 1 {
		return nil, &UsageError{Err: fmt.Errorf("unrecognized arguments: %s", strings.Join(positionals[1:], " "))}
	}

	fields := make(Fields)
	if len(positionals) == 1 {
		fields[HostField] = positionals[0]
	}

	for _, o := range s {
		if o.Dest == "" || o.Hidden {
			continue
		}
		if o.Default == nil && !fs.Changed(o.Name) {
			continue
		}
		v, err := value(fs, o)
		if err != nil {
			return nil, &UsageError{Flag: o.flagName(), Err: err}
		}
		if str, ok := v.(string); ok && !o.allows(str) {
			return nil, &UsageError{
				Flag: o.flagName(),
				Err:  fmt.Errorf("invalid choice: %q (choose from %s)", str, strings.Join(o.Choices, ", ")),
			}
		}
		fields[o.Dest] = v
	}
	return fields, nil
}

func value(fs *pflag.FlagSet, o Option) (interface{}, error) {
	switch o.Kind {
	case KindBool:
		return fs.GetBool(o.Name)
	case KindInt:
		return fs.GetInt(o.Name)
	case KindFloat:
		return fs.GetFloat64(o.Name)
	case KindString:
		return fs.GetString(o.Name)
	case KindStringList:
		v, err := fs.GetStringArray(o.Name)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	}
	return nil, fmt.Errorf("unknown kind %d", o.Kind)
}
