package statusweb3mockgo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// isTestAddress reports whether s is a 0x-prefixed 20-byte hex address.
func isTestAddress(s string) bool {
	return len(s) == 2*common.AddressLength+2 && common.IsHexAddress(s) && strings.HasPrefix(strings.ToLower(s), "0x")
}

func lowerAddress(s string) string {
	return strings.ToLower(s)
}

func parseChainID(raw json.RawMessage) (uint64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.ParseUint(n.String(), 10, 64)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: chainId must be a number or string", ErrMalformedMessage)
	}

	return parseQuantity(s)
}

// parseQuantity accepts "0x"-prefixed hex or plain decimal.
func parseQuantity(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			return 0, nil
		}
		return hexutil.DecodeUint64("0x" + digits)
	}
	return strconv.ParseUint(s, 10, 64)
}

func paramString(params []interface{}, i int) (string, bool) {
	if i >= len(params) {
		return "", false
	}
	s, ok := params[i].(string)
	return s, ok
}

func paramObject(params []interface{}, i int) (map[string]interface{}, bool) {
	if i >= len(params) {
		return nil, false
	}
	m, ok := params[i].(map[string]interface{})
	return m, ok
}
