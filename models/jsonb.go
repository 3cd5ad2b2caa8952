package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB stores a loosely structured JSON object (version snapshots).
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// JSONBArray stores a JSON list (event schedules).
type JSONBArray []interface{}

func (j JSONBArray) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONBArray) Scan(value interface{}) error {
	return scanJSON(value, j)
}

func scanJSON(value, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch b := value.(type) {
	case []byte:
		return json.Unmarshal(b, dest)
	case string:
		return json.Unmarshal([]byte(b), dest)
	default:
		return errors.New("type assertion to []byte failed")
	}
}
