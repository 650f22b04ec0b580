package irodshttp

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

type paramKind int

const (
	// paramString is a plain string, omitted when empty unless required
	paramString paramKind = iota
	// paramFlag is an int restricted to 0 or 1
	paramFlag
	// paramCount is an int >= -1, -1 means unset and is omitted
	paramCount
	// paramNonNegative is an int >= 0
	paramNonNegative
	// paramPositive is an int > 0
	paramPositive
	// paramEnum is a string restricted to allowed values
	paramEnum
	// paramJSON is a non-empty list serialized as a JSON string
	paramJSON
	// paramBytes is a raw payload
	paramBytes
)

func (kind paramKind) String() string {
	switch kind {
	case paramString:
		return "string"
	case paramFlag:
		return "flag (0 or 1)"
	case paramCount:
		return "integer >= -1"
	case paramNonNegative:
		return "integer >= 0"
	case paramPositive:
		return "integer > 0"
	case paramEnum:
		return "enum"
	case paramJSON:
		return "list"
	case paramBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// paramSpec describes a single wire parameter
type paramSpec struct {
	key      string
	kind     paramKind
	required bool
	def      interface{}
	allowed  []string
}

// operationSpec describes one endpoint operation
type operationSpec struct {
	endpoint    string
	op          string
	method      string
	params      []paramSpec
	rawResponse bool
	// check validates relations between parameters, after per-parameter validation
	check func(args operationArgs) error
}

// isIdempotent returns true if the operation can be sent again without side effects
func (spec *operationSpec) isIdempotent() bool {
	return spec.method == http.MethodGet
}

func requiredString(key string) paramSpec {
	return paramSpec{key: key, kind: paramString, required: true}
}

func optionalString(key string) paramSpec {
	return paramSpec{key: key, kind: paramString}
}

func flagParam(key string, def int) paramSpec {
	return paramSpec{key: key, kind: paramFlag, def: def}
}

// optionalFlagParam is a flag that is not sent unless given
func optionalFlagParam(key string) paramSpec {
	return paramSpec{key: key, kind: paramFlag}
}

func countParam(key string) paramSpec {
	return paramSpec{key: key, kind: paramCount}
}

func nonNegativeParam(key string, def int) paramSpec {
	return paramSpec{key: key, kind: paramNonNegative, def: def}
}

func requiredNonNegativeParam(key string) paramSpec {
	return paramSpec{key: key, kind: paramNonNegative, required: true}
}

func requiredPositiveParam(key string) paramSpec {
	return paramSpec{key: key, kind: paramPositive, required: true}
}

func enumParam(key string, def string, allowed ...string) paramSpec {
	spec := paramSpec{key: key, kind: paramEnum, allowed: allowed}
	if len(def) > 0 {
		spec.def = def
	}
	return spec
}

func requiredEnumParam(key string, allowed ...string) paramSpec {
	return paramSpec{key: key, kind: paramEnum, required: true, allowed: allowed}
}

func requiredJSONParam(key string) paramSpec {
	return paramSpec{key: key, kind: paramJSON, required: true}
}

func requiredBytesParam(key string) paramSpec {
	return paramSpec{key: key, kind: paramBytes, required: true}
}

// operationArgs holds operation arguments keyed by wire parameter name
type operationArgs map[string]interface{}

// setInt sets the value when given
func (args operationArgs) setInt(key string, value *int) {
	if value != nil {
		args[key] = *value
	}
}

func (args operationArgs) has(key string) bool {
	_, ok := args[key]
	return ok
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// encode validates the given value and returns its wire form, the bool tells if it must be sent
func (param *paramSpec) encode(value interface{}) (string, bool, error) {
	switch param.kind {
	case paramString:
		s, ok := value.(string)
		if !ok {
			return "", false, xerrors.Errorf("%q must be a string, got %T: %w", param.key, value, ErrInvalidType)
		}
		if len(s) == 0 && !param.required {
			return "", false, nil
		}
		return s, true, nil
	case paramFlag, paramCount, paramNonNegative, paramPositive:
		i, ok := toInt(value)
		if !ok {
			return "", false, xerrors.Errorf("%q must be an integer, got %T: %w", param.key, value, ErrInvalidType)
		}

		switch param.kind {
		case paramFlag:
			if i != 0 && i != 1 {
				return "", false, xerrors.Errorf("%q must be 0 or 1, got %d: %w", param.key, i, ErrInvalidValue)
			}
		case paramCount:
			if i < -1 {
				return "", false, xerrors.Errorf("%q must be >= -1, got %d: %w", param.key, i, ErrInvalidValue)
			}
			if i == -1 {
				return "", false, nil
			}
		case paramNonNegative:
			if i < 0 {
				return "", false, xerrors.Errorf("%q must be >= 0, got %d: %w", param.key, i, ErrInvalidValue)
			}
		case paramPositive:
			if i <= 0 {
				return "", false, xerrors.Errorf("%q must be > 0, got %d: %w", param.key, i, ErrInvalidValue)
			}
		}
		return strconv.Itoa(i), true, nil
	case paramEnum:
		s, ok := value.(string)
		if !ok {
			return "", false, xerrors.Errorf("%q must be a string, got %T: %w", param.key, value, ErrInvalidType)
		}
		if len(s) == 0 && !param.required {
			if param.def == nil {
				return "", false, nil
			}
			s = param.def.(string)
		}
		for _, allowed := range param.allowed {
			if s == allowed {
				return s, true, nil
			}
		}
		return "", false, xerrors.Errorf("%q must be one of [%s], got %q: %w", param.key, strings.Join(param.allowed, ", "), s, ErrInvalidValue)
	case paramJSON:
		if value == nil {
			return "", false, xerrors.Errorf("%q must be a list, got nil: %w", param.key, ErrInvalidType)
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return "", false, xerrors.Errorf("%q must be a list, got %T: %w", param.key, value, ErrInvalidType)
		}
		if rv.Len() == 0 {
			return "", false, xerrors.Errorf("%q must contain at least one operation: %w", param.key, ErrInvalidValue)
		}
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return "", false, xerrors.Errorf("failed to marshal %q to JSON: %v: %w", param.key, err, ErrInvalidType)
		}
		return string(jsonBytes), true, nil
	case paramBytes:
		switch v := value.(type) {
		case []byte:
			return string(v), true, nil
		case string:
			return v, true, nil
		default:
			return "", false, xerrors.Errorf("%q must be bytes or a string, got %T: %w", param.key, value, ErrInvalidType)
		}
	default:
		return "", false, xerrors.Errorf("unknown parameter kind %d for %q: %w", param.kind, param.key, ErrInvalidType)
	}
}

func (spec *operationSpec) getParam(key string) (*paramSpec, bool) {
	for idx := range spec.params {
		if spec.params[idx].key == key {
			return &spec.params[idx], true
		}
	}
	return nil, false
}

// encode validates args and converts them into wire values, op is always included when the operation has one
func (spec *operationSpec) encode(args operationArgs) (url.Values, error) {
	// reject keys the operation does not know in a stable order
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := spec.getParam(key); !ok {
			return nil, newValidationError(spec, ErrInvalidValue, "unknown parameter %q", key)
		}
	}

	values := url.Values{}
	if len(spec.op) > 0 {
		values.Set("op", spec.op)
	}

	for idx := range spec.params {
		param := &spec.params[idx]

		value, ok := args[param.key]
		if !ok {
			if param.required {
				return nil, newValidationError(spec, ErrMissingParameter, "parameter %q is required", param.key)
			}

			if param.def == nil {
				continue
			}

			value = param.def
		}

		encoded, send, err := param.encode(value)
		if err != nil {
			cause := ErrInvalidValue
			if xerrors.Is(err, ErrInvalidType) {
				cause = ErrInvalidType
			}
			return nil, newValidationError(spec, cause, "%s", err.Error())
		}

		if send {
			values.Set(param.key, encoded)
		}
	}

	if spec.check != nil {
		err := spec.check(args)
		if err != nil {
			cause := ErrInvalidValue
			if xerrors.Is(err, ErrInvalidType) {
				cause = ErrInvalidType
			}
			return nil, newValidationError(spec, cause, "%s", err.Error())
		}
	}

	return values, nil
}
