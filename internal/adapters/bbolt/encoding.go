// Value encoding for stored match records.
//
// Every value is a one-byte format header followed by the payload:
//
//	formatJSON (0x01): encoding/json of the value
package bbolt

import (
	"encoding/json"
	"fmt"
)

const formatJSON byte = 0x01

// encodeValue frames v as a formatJSON value.
func encodeValue(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, formatJSON)
	return append(buf, payload...), nil
}

// decodeValue decodes a framed value into target. Target must be a pointer.
func decodeValue(data []byte, target any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case formatJSON:
		return json.Unmarshal(data[1:], target)
	default:
		return fmt.Errorf("unknown value format 0x%02x", data[0])
	}
}
