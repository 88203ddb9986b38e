package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a JSON scalar that may arrive either as a number or as a
// numeric string. Decoding never fails on scalar input; callers coerce with
// Float64/Int and decide what a non-numeric value means.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	if string(b) == "null" {
		*n = ""
		return nil
	}
	*n = Number(b)
	return nil
}

func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
}

// Int truncates fractional input; quantities are whole numbers but some
// senders encode them as floats.
func (n Number) Int() (int, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func (n Number) String() string { return string(n) }
