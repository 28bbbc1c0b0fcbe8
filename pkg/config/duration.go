package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML either as a Go
// duration string ("500ms", "2s") or as an integer nanosecond count.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler. The node tag decides the form:
// integers are nanoseconds, everything else must parse as a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("invalid duration value %q", value.Value)
		}
		*d = Duration(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	return fmt.Errorf("invalid duration value %q", value.Value)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}
