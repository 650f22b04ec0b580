package commons

import (
	"encoding/json"
	"time"

	"golang.org/x/xerrors"
)

// Duration is a time.Duration that can be given as "30s" in YAML and JSON configs.
// A number without units is read as nanoseconds.
type Duration time.Duration

// String returns the duration in time.Duration format (e.g., 1m30s)
func (d Duration) String() string {
	return time.Duration(d).String()
}

func parseDuration(s string) (Duration, error) {
	if len(s) == 0 {
		return 0, nil
	}

	lastChar := s[len(s)-1]
	if lastChar >= '0' && lastChar <= '9' {
		s += "ns"
	}

	td, err := time.ParseDuration(s)
	if err != nil {
		return 0, xerrors.Errorf("failed to parse %q to duration: %w", s, err)
	}
	return Duration(td), nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads the duration from a string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	err := json.Unmarshal(b, &v)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal duration: %w", err)
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := parseDuration(value)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return xerrors.Errorf("failed to parse %s to duration", string(b))
	}
}

// UnmarshalYAML reads the duration from a string
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	err := unmarshal(&s)
	if err != nil {
		return err
	}

	parsed, err := parseDuration(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
