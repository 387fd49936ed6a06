package statusweb3mockgo

import (
	"fmt"
	"sync"
)

// TransportConfig tells the content program how to reach the bridge.
type TransportConfig struct {
	Kind    string `json:"kind" toml:"kind"`
	Handler string `json:"handler,omitempty" toml:"handler"`
	URL     string `json:"url,omitempty" toml:"url"`
}

// SessionConfiguration is read every time scripts are built for a page load.
type SessionConfiguration struct {
	Identity    IdentityKey `json:"identity" toml:"identity"`
	TestAddress string      `json:"testAddress" toml:"test_address"`
	ChainID     uint64      `json:"chainId" toml:"chain_id"`
	Autoconnect bool        `json:"autoconnect" toml:"autoconnect"`
	Debug       bool        `json:"debug" toml:"debug"`

	AutoconnectDelayMs int `json:"autoconnectDelayMs" toml:"autoconnect_delay_ms"`
	AnnounceDelayMs    int `json:"announceDelayMs" toml:"announce_delay_ms"`
	// RequestTimeoutMs rejects pending requests that stay unsettled this
	// long. Zero keeps them pending forever.
	RequestTimeoutMs int `json:"requestTimeoutMs" toml:"request_timeout_ms"`

	Transport TransportConfig `json:"transport" toml:"transport"`
}

func DefaultSessionConfiguration() SessionConfiguration {
	return SessionConfiguration{
		Identity:           MetaMask,
		ChainID:            defChainID,
		AutoconnectDelayMs: defAutoconnectDelayMs,
		AnnounceDelayMs:    defAnnounceDelayMs,
		Transport: TransportConfig{
			Kind:    TransportWebKit,
			Handler: defHandlerName,
		},
	}
}

// Validate checks the configuration and fills zero transport values.
func (c *SessionConfiguration) Validate() error {
	if c.Identity < 0 || int(c.Identity) >= len(identities) {
		return fmt.Errorf("%w: %d", ErrUnknownIdentity, int(c.Identity))
	}
	if c.TestAddress != "" && !isTestAddress(c.TestAddress) {
		return fmt.Errorf("%w: %q is not a 42 character hex address", ErrInvalidAddress, c.TestAddress)
	}
	if c.ChainID == 0 {
		return fmt.Errorf("chain id must be positive")
	}
	if c.AutoconnectDelayMs < 0 || c.AnnounceDelayMs < 0 || c.RequestTimeoutMs < 0 {
		return fmt.Errorf("delays and timeouts must not be negative")
	}

	switch c.Transport.Kind {
	case "":
		c.Transport.Kind = TransportWebKit
		fallthrough
	case TransportWebKit:
		if c.Transport.Handler == "" {
			c.Transport.Handler = defHandlerName
		}
	case TransportWebSocket:
		if c.Transport.URL == "" {
			return fmt.Errorf("websocket transport needs a url")
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport.Kind)
	}

	return nil
}

// Session is the single shared, mutable, session-scoped configuration.
type Session struct {
	mu  sync.RWMutex
	cfg SessionConfiguration
}

func NewSession(cfg SessionConfiguration) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{cfg: cfg}, nil
}

// Configuration returns a snapshot.
func (s *Session) Configuration() SessionConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies fn to a copy and commits it only if the result validates.
func (s *Session) Update(fn func(cfg *SessionConfiguration)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

func (s *Session) SetIdentity(k IdentityKey) error {
	return s.Update(func(cfg *SessionConfiguration) { cfg.Identity = k })
}

func (s *Session) SetTestAddress(address string) error {
	return s.Update(func(cfg *SessionConfiguration) { cfg.TestAddress = address })
}

func (s *Session) SetChainID(chainID uint64) error {
	return s.Update(func(cfg *SessionConfiguration) { cfg.ChainID = chainID })
}

func (s *Session) SetAutoconnect(on bool) error {
	return s.Update(func(cfg *SessionConfiguration) { cfg.Autoconnect = on })
}

func (s *Session) SetDebug(on bool) error {
	return s.Update(func(cfg *SessionConfiguration) { cfg.Debug = on })
}

func (s *Session) Debug() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Debug
}
