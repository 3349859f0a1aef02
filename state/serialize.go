package state

import (
	"encoding/json"
	"fmt"
)

// The wire form of a table is a JSON array of 3-element rows:
// [["1","2",3],["1","3","inf"], ...]. JSON has no Infinity literal, so an
// unreachable cost is encoded as the string "inf".

func (c Cost) MarshalJSON() ([]byte, error) {
	if !c.Finite() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(c))
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*c = Inf
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f < 0 {
		return fmt.Errorf("cost must be non-negative, got %g", f)
	}
	*c = Cost(f)
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{e.Src, e.Dst, e.Cost})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	if len(row) != 3 {
		return fmt.Errorf("table row must have 3 elements, got %d", len(row))
	}
	if err := json.Unmarshal(row[0], &e.Src); err != nil {
		return err
	}
	if err := json.Unmarshal(row[1], &e.Dst); err != nil {
		return err
	}
	return json.Unmarshal(row[2], &e.Cost)
}
