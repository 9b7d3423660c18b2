package model

// Event wraps one audit event payload with the identity downstream
// indexers key on: pool plus tick boundaries, and the instruction
// sequence that produced it.
type Event struct {
	Seq       uint64      `json:"seq"`
	Name      string      `json:"name"`
	Pool      string      `json:"pool"`
	TickLower int32       `json:"tick_lower"`
	TickUpper int32       `json:"tick_upper"`
	Data      interface{} `json:"data"`
}
