// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	xtract "github.com/sassoftware/viya-coa-xtract"
)

// ResultSchema is the JSON contract downstream consumers read.
const ResultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["fields", "rows"],
  "additionalProperties": false,
  "properties": {
    "fields": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "rows": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["serial", "test", "result", "specification"],
        "additionalProperties": false,
        "properties": {
          "serial": {"type": "string"},
          "test": {"type": "string"},
          "result": {"type": "string"},
          "specification": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("result.json", bytes.NewReader([]byte(ResultSchema))); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("result.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateJSON checks data against ResultSchema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// JSON marshals res and checks the output against ResultSchema.
func JSON(res *xtract.Result) ([]byte, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	return data, nil
}
