package passkey

import (
	"fmt"
	"regexp"
	"strings"
)

// pluginSegmentRegex matches one dot-separated segment of a plugin name.
var pluginSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// passSegmentRegex matches one slash-separated segment of a pass name.
var passSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Key is the globally unique identifier of a pass.
type Key struct {
	Plugin string
	Pass   string
}

// New validates and builds a key from its plugin and pass parts.
func New(plugin, pass string) (Key, error) {
	if err := validatePlugin(plugin); err != nil {
		return Key{}, err
	}
	if err := validatePass(pass); err != nil {
		return Key{}, err
	}
	return Key{Plugin: plugin, Pass: pass}, nil
}

// MustNew is like New but panics on an invalid key. It is meant for keys
// that are constants in Go source.
func MustNew(plugin, pass string) Key {
	k, err := New(plugin, pass)
	if err != nil {
		panic(err)
	}
	return k
}

// Parse converts the canonical `<plugin>/<pass>` form into a Key.
func Parse(raw string) (Key, error) {
	if raw == "" {
		return Key{}, fmt.Errorf("pass key cannot be empty")
	}
	plugin, pass, found := strings.Cut(raw, "/")
	if !found {
		return Key{}, fmt.Errorf("pass key %q must have the form <plugin>/<pass>", raw)
	}
	k, err := New(plugin, pass)
	if err != nil {
		return Key{}, fmt.Errorf("invalid pass key %q: %w", raw, err)
	}
	return k, nil
}

// Synthetic builds an internal key. The pass name is `~` followed by the
// parts joined with `/`. No validation is applied.
func Synthetic(plugin string, parts ...string) Key {
	return Key{Plugin: plugin, Pass: "~" + strings.Join(parts, "/")}
}

// String returns the canonical `<plugin>/<pass>` form.
func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	return k.Plugin + "/" + k.Pass
}

// IsZero reports whether k is the empty key.
func (k Key) IsZero() bool {
	return k.Plugin == "" && k.Pass == ""
}

// IsSynthetic reports whether k was created by Synthetic.
func (k Key) IsSynthetic() bool {
	return strings.HasPrefix(k.Pass, "~")
}

// Less orders keys by ordinal comparison of their canonical form.
func Less(a, b Key) bool {
	return a.String() < b.String()
}

// Compare returns -1, 0 or +1 comparing the canonical forms of a and b.
func Compare(a, b Key) int {
	return strings.Compare(a.String(), b.String())
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func validatePlugin(plugin string) error {
	if plugin == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}
	for _, segment := range strings.Split(plugin, ".") {
		if segment == "" {
			return fmt.Errorf("plugin name %q contains an empty segment", plugin)
		}
		if !pluginSegmentRegex.MatchString(segment) {
			return fmt.Errorf("invalid plugin name segment %q", segment)
		}
	}
	return nil
}

func validatePass(pass string) error {
	if pass == "" {
		return fmt.Errorf("pass name cannot be empty")
	}
	for _, segment := range strings.Split(pass, "/") {
		if segment == "" {
			return fmt.Errorf("pass name %q contains an empty segment", pass)
		}
		if segment == "." || segment == ".." {
			return fmt.Errorf("invalid pass name segment %q", segment)
		}
		if !passSegmentRegex.MatchString(segment) {
			return fmt.Errorf("invalid pass name segment %q", segment)
		}
	}
	return nil
}
