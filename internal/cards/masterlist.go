package cards

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadMasterlist reads a card masterlist. Both known formats are accepted,
// a bare card array and an object with a data key.
func ReadMasterlist(r io.Reader) ([]Card, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read masterlist due to %w", err)
	}

	var wrapper struct {
		Data []Card `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Data != nil {
		return wrapper.Data, nil
	}

	var list []Card
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("masterlist is neither a card array nor a data object, %w", err)
	}

	return list, nil
}
