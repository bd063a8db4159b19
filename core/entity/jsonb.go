package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB maps a Postgres jsonb column onto a generic document.
type JSONB map[string]any

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return json.Unmarshal(data, j)
}
