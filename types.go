package statusweb3mockgo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Call is one request forwarded by the content program. The content side
// keeps the pending resolve/reject pair; the native side only sees the id.
type Call struct {
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	Address string        `json:"address"`
	ChainID uint64        `json:"chainId"`
}

// UnmarshalJSON accepts a null address and a chain id sent as a number or
// as a hex/decimal string, and tolerates params that are not a list.
func (c *Call) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      *string         `json:"id"`
		Method  *string         `json:"method"`
		Params  json.RawMessage `json:"params"`
		Address *string         `json:"address"`
		ChainID json.RawMessage `json:"chainId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.ID == nil || *raw.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedMessage)
	}
	if raw.Method == nil || *raw.Method == "" {
		return fmt.Errorf("%w: missing method", ErrMalformedMessage)
	}

	c.ID = *raw.ID
	c.Method = *raw.Method
	c.Params = nil
	c.Address = ""
	c.ChainID = 0

	if raw.Address != nil {
		c.Address = *raw.Address
	}

	if len(raw.Params) > 0 && string(raw.Params) != "null" {
		var list []interface{}
		if err := json.Unmarshal(raw.Params, &list); err != nil {
			var single interface{}
			if err := json.Unmarshal(raw.Params, &single); err != nil {
				return err
			}
			list = []interface{}{single}
		}
		c.Params = list
	}

	if len(raw.ChainID) > 0 && string(raw.ChainID) != "null" {
		id, err := parseChainID(raw.ChainID)
		if err != nil {
			return err
		}
		c.ChainID = id
	}

	return nil
}

// Delivery settles the pending entry for ID in the content program.
type Delivery struct {
	ID     string      `json:"id"`
	Error  *RPCError   `json:"error"`
	Result interface{} `json:"result"`
}

// Notification is a simulated provider event pushed into the content program.
type Notification struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

// Deliverer carries native -> content instructions. Implementations must be
// safe for concurrent use: the bridge delivers from one goroutine per call.
type Deliverer interface {
	Deliver(d *Delivery)
	Notify(n *Notification)
}

type InjectionTime int

const (
	AtDocumentStart InjectionTime = iota
	AtDocumentEnd
)

func (t InjectionTime) MarshalText() ([]byte, error) {
	switch t {
	case AtDocumentStart:
		return []byte("document-start"), nil
	case AtDocumentEnd:
		return []byte("document-end"), nil
	default:
		return nil, errors.New("unknown injection time")
	}
}

// UserScript is one program the host installs into every new page load.
type UserScript struct {
	Name          string        `json:"name"`
	Source        string        `json:"source"`
	InjectionTime InjectionTime `json:"injectionTime"`
	MainFrameOnly bool          `json:"mainFrameOnly"`
}
