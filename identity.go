package statusweb3mockgo

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IdentityKey selects one of the emulated wallet brands.
type IdentityKey int

const (
	MetaMask IdentityKey = iota
	CoinbaseWallet
	Rainbow
	TrustWallet
	Status
)

// ProviderIdentity is the EIP-6963 provider info of a wallet brand.
type ProviderIdentity struct {
	UUID uuid.UUID `json:"uuid"`
	Name string    `json:"name"`
	Icon string    `json:"icon"`
	RDNS string    `json:"rdns"`
}

type identityEntry struct {
	key     IdentityKey
	slug    string
	info    ProviderIdentity
	flags   []string // boolean markers set on the provider object
	aliases []string // extra window globals used by older detection code
}

func svgIcon(fill string, letter string) string {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="96" height="96" viewBox="0 0 96 96">` +
		`<rect width="96" height="96" rx="20" fill="` + fill + `"/>` +
		`<text x="48" y="62" font-size="44" text-anchor="middle" fill="#fff" font-family="sans-serif">` + letter + `</text></svg>`
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

var identities = []identityEntry{
	{
		key:  MetaMask,
		slug: "metamask",
		info: ProviderIdentity{
			UUID: uuid.MustParse("7f4e1c2a-5b0d-4d8e-9a61-3c2b8f0e6d11"),
			Name: "MetaMask",
			Icon: svgIcon("#f6851b", "M"),
			RDNS: "io.metamask",
		},
		flags: []string{"isMetaMask"},
	},
	{
		key:  CoinbaseWallet,
		slug: "coinbase",
		info: ProviderIdentity{
			UUID: uuid.MustParse("2c9a6f3e-8d14-4b7a-b0c5-61e7d2a94f22"),
			Name: "Coinbase Wallet",
			Icon: svgIcon("#0052ff", "C"),
			RDNS: "com.coinbase.wallet",
		},
		flags:   []string{"isCoinbaseWallet"},
		aliases: []string{"coinbaseWalletExtension"},
	},
	{
		key:  Rainbow,
		slug: "rainbow",
		info: ProviderIdentity{
			UUID: uuid.MustParse("b35d0e7c-1f62-4a9d-8e43-9d5a7c1b0e33"),
			Name: "Rainbow",
			Icon: svgIcon("#174299", "R"),
			RDNS: "me.rainbow",
		},
		flags:   []string{"isRainbow", "isMetaMask"},
		aliases: []string{"rainbow"},
	},
	{
		key:  TrustWallet,
		slug: "trust",
		info: ProviderIdentity{
			UUID: uuid.MustParse("e41b8a2d-6c37-4f05-a2d9-0b8e5f3c7a44"),
			Name: "Trust Wallet",
			Icon: svgIcon("#0500ff", "T"),
			RDNS: "com.trustwallet.app",
		},
		flags:   []string{"isTrust", "isTrustWallet"},
		aliases: []string{"trustwallet"},
	},
	{
		key:  Status,
		slug: "status",
		info: ProviderIdentity{
			UUID: uuid.MustParse("5a0f7d3b-9e28-4c61-b7f4-2d6c9a8e1b55"),
			Name: "Status",
			Icon: svgIcon("#4360df", "S"),
			RDNS: "im.status",
		},
		flags: []string{"isStatus"},
	},
}

func (k IdentityKey) entry() *identityEntry {
	if k < 0 || int(k) >= len(identities) {
		panic(fmt.Sprintf("statusweb3mockgo: identity key %d out of range", int(k)))
	}
	return &identities[k]
}

// Identity returns the fixed provider info for k. Keys outside the closed set
// are a programming error and panic.
func Identity(k IdentityKey) ProviderIdentity {
	return k.entry().info
}

// Identities lists every supported key in registry order.
func Identities() []IdentityKey {
	keys := make([]IdentityKey, len(identities))
	for i := range identities {
		keys[i] = identities[i].key
	}
	return keys
}

func ParseIdentityKey(s string) (IdentityKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range identities {
		e := &identities[i]
		if s == e.slug || s == strings.ToLower(e.info.Name) || s == e.info.RDNS {
			return e.key, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIdentity, s)
}

func (k IdentityKey) String() string {
	return k.entry().slug
}

func (k IdentityKey) DisplayName() string {
	return k.entry().info.Name
}

// Flags are the boolean markers (isMetaMask, ...) the provider carries.
func (k IdentityKey) Flags() []string {
	return append([]string(nil), k.entry().flags...)
}

// Aliases are the extra window globals the provider is installed under.
func (k IdentityKey) Aliases() []string {
	return append([]string(nil), k.entry().aliases...)
}

func (k IdentityKey) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(identities) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIdentity, int(k))
	}
	return []byte(k.String()), nil
}

func (k *IdentityKey) UnmarshalText(text []byte) error {
	key, err := ParseIdentityKey(string(text))
	if err != nil {
		return err
	}
	*k = key
	return nil
}
