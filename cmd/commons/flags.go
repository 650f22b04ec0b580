package commons

import (
	"strconv"

	"github.com/cyverse/irodshttp/pkg/irodshttp"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

// GetStringFlag returns the value of a string flag, empty if the flag does not exist
func GetStringFlag(command *cobra.Command, name string) string {
	flag := command.Flags().Lookup(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// GetBoolFlag returns the value of a bool flag, false if the flag does not exist
func GetBoolFlag(command *cobra.Command, name string) bool {
	flag := command.Flags().Lookup(name)
	if flag == nil {
		return false
	}

	value, _ := strconv.ParseBool(flag.Value.String())
	return value
}

// GetOptionalFlag returns a flag value (0 or 1) if the bool flag is given, nil otherwise
func GetOptionalFlag(command *cobra.Command, name string) *int {
	flag := command.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil
	}

	value, _ := strconv.ParseBool(flag.Value.String())
	return irodshttp.Bool(value)
}

// GetOptionalInt returns the value of an int flag if given, nil otherwise
func GetOptionalInt(command *cobra.Command, name string) (*int, error) {
	flag := command.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil, nil
	}

	value, err := strconv.ParseInt(flag.Value.String(), 10, 32)
	if err != nil {
		return nil, xerrors.Errorf("failed to convert input %q to int: %w", flag.Value.String(), err)
	}

	return irodshttp.Int(int(value)), nil
}
