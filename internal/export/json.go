package export

import (
	"encoding/json"
	"os"

	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/errors"
)

// WriteJSON writes a value as indented JSON. Used for the aggregate
// summary, the reconciliation summary, and the cached roster.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}

// ReadJSON reads an indented JSON file into target.
func ReadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	return errors.WrapParse("json", path, json.Unmarshal(data, target))
}
