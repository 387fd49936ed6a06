package statusweb3mockgo

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// callEncoder answers one eth_call selector. args is the call data after
// the 4-byte selector.
type callEncoder func(args []byte, call *Call) ([]byte, error)

type selectorEntry struct {
	signature string
	encode    callEncoder
}

var (
	abiUint256 = mustType("uint256")
	abiUint8   = mustType("uint8")
	abiString  = mustType("string")
	abiAddress = mustType("address")
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func pack(t abi.Type, v interface{}) ([]byte, error) {
	return abi.Arguments{{Type: t}}.Pack(v)
}

// selectorTable maps known ERC-20 view selectors to their encoders.
var selectorTable = newSelectorTable(
	selectorEntry{"balanceOf(address)", func(args []byte, call *Call) ([]byte, error) {
		values, err := abi.Arguments{{Type: abiAddress}}.Unpack(args)
		if err != nil {
			return nil, err
		}
		owner := values[0].(common.Address)
		return pack(abiUint256, tokenBalanceFor(owner, call.Address).ToBig())
	}},
	selectorEntry{"name()", func([]byte, *Call) ([]byte, error) {
		return pack(abiString, mockTokenName)
	}},
	selectorEntry{"symbol()", func([]byte, *Call) ([]byte, error) {
		return pack(abiString, mockTokenSymbol)
	}},
	selectorEntry{"decimals()", func([]byte, *Call) ([]byte, error) {
		return pack(abiUint8, uint8(mockTokenDecimals))
	}},
)

func newSelectorTable(entries ...selectorEntry) map[[4]byte]selectorEntry {
	table := make(map[[4]byte]selectorEntry, len(entries))
	for _, e := range entries {
		var sel [4]byte
		copy(sel[:], crypto.Keccak256([]byte(e.signature))[:4])
		if _, dup := table[sel]; dup {
			panic(fmt.Sprintf("duplicate selector for %s", e.signature))
		}
		table[sel] = e
	}
	return table
}

// encodeCall looks up data's selector; unknown or short data yields no output.
func encodeCall(data []byte, call *Call) ([]byte, error) {
	if len(data) < 4 {
		return []byte{}, nil
	}

	var sel [4]byte
	copy(sel[:], data[:4])
	entry, ok := selectorTable[sel]
	if !ok {
		return []byte{}, nil
	}

	out, err := entry.encode(bytes.Clone(data[4:]), call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.signature, err)
	}
	return out, nil
}
