package statusweb3mockgo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// pseudoSignature expands a digest into a 65-byte r||s||v fixture. It is a
// pure function of the digest and is not a valid ECDSA signature.
func pseudoSignature(digest []byte) string {
	sig := make([]byte, 0, crypto.SignatureLength)
	sig = append(sig, digest...)
	sig = append(sig, crypto.Keccak256(digest)...)
	sig = append(sig, 27)
	return hexutil.Encode(sig)
}

// messageBytes decodes 0x-hex payloads and treats anything else as UTF-8.
func messageBytes(s string) []byte {
	if b, err := hexutil.Decode(s); err == nil {
		return b
	}
	return []byte(s)
}

// messageParam returns the first string parameter that is not the signing
// account, tolerating dApps that swap the (message, address) order. Without a
// session address any address-shaped string is skipped.
func messageParam(call *Call) (string, bool) {
	signer := func(s string) bool {
		if call.Address != "" {
			return strings.EqualFold(s, call.Address)
		}
		return isTestAddress(s)
	}
	for i := range call.Params {
		if s, ok := paramString(call.Params, i); ok && !signer(s) {
			return s, true
		}
	}
	if s, ok := paramString(call.Params, 0); ok {
		return s, true
	}
	return "", false
}

func (md *MockDispatcher) handlePersonalSign(_ context.Context, call *Call) (interface{}, error) {
	msg, ok := messageParam(call)
	if !ok {
		return nil, invalidParams(call.Method, "expected a message parameter")
	}
	return pseudoSignature(accounts.TextHash(messageBytes(msg))), nil
}

func (md *MockDispatcher) handleEthSign(_ context.Context, call *Call) (interface{}, error) {
	data, ok := paramString(call.Params, 1)
	if !ok {
		return nil, invalidParams(call.Method, "expected [address, data]")
	}
	return pseudoSignature(crypto.Keccak256(messageBytes(data))), nil
}

func (md *MockDispatcher) handleSignTypedData(_ context.Context, call *Call) (interface{}, error) {
	var content []byte
	for _, p := range call.Params {
		switch v := p.(type) {
		case string:
			if isTestAddress(v) {
				continue
			}
			content = []byte(v)
		case map[string]interface{}, []interface{}:
			// encoding/json sorts map keys, so equal documents encode equally.
			b, err := json.Marshal(v)
			if err != nil {
				return nil, invalidParams(call.Method, err.Error())
			}
			content = b
		}
		if content != nil {
			break
		}
	}
	if content == nil {
		return nil, invalidParams(call.Method, "expected typed data")
	}
	return pseudoSignature(crypto.Keccak256([]byte{0x19, 0x01}, content)), nil
}
