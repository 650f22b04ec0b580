package commons

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/xerrors"
)

const configSchemaURL string = "https://schemas.irods.org/irods-http-api/client/0.3.0/config-schema.json"

const configSchema string = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"$id": "https://schemas.irods.org/irods-http-api/client/0.3.0/config-schema.json",
	"type": "object",
	"properties": {
		"scheme": {
			"type": "string",
			"enum": ["http", "https"]
		},
		"host": {
			"type": "string",
			"minLength": 1
		},
		"port": {
			"type": "integer",
			"minimum": 1,
			"maximum": 65535
		},
		"url_base": {
			"type": "string",
			"pattern": "^/"
		},
		"username": {
			"type": "string"
		},
		"password": {
			"type": "string"
		},
		"zone_name": {
			"type": "string"
		},
		"token": {
			"type": "string"
		},
		"request_timeout": {
			"type": "string"
		},
		"retry_max": {
			"type": "integer",
			"minimum": 1
		},
		"parallel_write_streams": {
			"type": "integer",
			"minimum": 1
		},
		"parallel_write_chunk_size": {
			"type": "integer",
			"minimum": 1
		}
	},
	"required": [
		"host",
		"port",
		"url_base"
	]
}`

var (
	compiledConfigSchema     *jsonschema.Schema
	compiledConfigSchemaErr  error
	compiledConfigSchemaOnce sync.Once
)

func getConfigSchema() (*jsonschema.Schema, error) {
	compiledConfigSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		err := compiler.AddResource(configSchemaURL, strings.NewReader(configSchema))
		if err != nil {
			compiledConfigSchemaErr = xerrors.Errorf("failed to add config schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile(configSchemaURL)
		if err != nil {
			compiledConfigSchemaErr = xerrors.Errorf("failed to compile config schema: %w", err)
			return
		}

		compiledConfigSchema = schema
	})

	return compiledConfigSchema, compiledConfigSchemaErr
}

// ValidateConfigSchema validates the config against the config JSON schema
func ValidateConfigSchema(config *Config) error {
	schema, err := getConfigSchema()
	if err != nil {
		return err
	}

	jsonBytes, err := json.Marshal(config)
	if err != nil {
		return xerrors.Errorf("failed to marshal config to JSON: %w", err)
	}

	var doc interface{}
	err = json.Unmarshal(jsonBytes, &doc)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal config JSON: %w", err)
	}

	err = schema.Validate(doc)
	if err != nil {
		return xerrors.Errorf("config does not match the schema: %w", err)
	}
	return nil
}
