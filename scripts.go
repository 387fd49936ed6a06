package statusweb3mockgo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed js/provider.js
var providerProgram string

//go:embed js/eip6963.js
var announcerProgram string

const (
	ProviderScriptName  = "status-web3-mock-provider"
	AnnouncerScriptName = "status-web3-mock-eip6963"
	InitScriptName      = "status-web3-mock-init"
)

// initMessage is the structured configuration handed to both content
// programs. It is the only per-session part of the installed scripts.
type initMessage struct {
	Identity           ProviderIdentity `json:"identity"`
	Flags              []string         `json:"flags"`
	Aliases            []string         `json:"aliases"`
	Address            *string          `json:"address"`
	ChainID            uint64           `json:"chainId"`
	Autoconnect        bool             `json:"autoconnect"`
	Debug              bool             `json:"debug"`
	AutoconnectDelayMs int              `json:"autoconnectDelayMs"`
	AnnounceDelayMs    int              `json:"announceDelayMs"`
	RequestTimeoutMs   int              `json:"requestTimeoutMs"`
	Transport          TransportConfig  `json:"transport"`
}

func newInitMessage(cfg SessionConfiguration) initMessage {
	msg := initMessage{
		Identity:           Identity(cfg.Identity),
		Flags:              cfg.Identity.Flags(),
		Aliases:            cfg.Identity.Aliases(),
		ChainID:            cfg.ChainID,
		Autoconnect:        cfg.Autoconnect,
		Debug:              cfg.Debug,
		AutoconnectDelayMs: cfg.AutoconnectDelayMs,
		AnnounceDelayMs:    cfg.AnnounceDelayMs,
		RequestTimeoutMs:   cfg.RequestTimeoutMs,
		Transport:          cfg.Transport,
	}
	if msg.Flags == nil {
		msg.Flags = []string{}
	}
	if msg.Aliases == nil {
		msg.Aliases = []string{}
	}
	if cfg.TestAddress != "" {
		addr := cfg.TestAddress
		msg.Address = &addr
	}
	return msg
}

// jsLiteral encodes v as JSON, which is also a valid JavaScript expression.
// encoding/json escapes U+2028 and U+2029, so the result is safe inside
// script source.
func jsLiteral(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ScriptGenerator builds the scripts installed into each new page load from
// the current session configuration.
type ScriptGenerator struct {
	session *Session
}

func NewScriptGenerator(session *Session) *ScriptGenerator {
	return &ScriptGenerator{session: session}
}

func ProviderScript() UserScript {
	return UserScript{
		Name:          ProviderScriptName,
		Source:        providerProgram,
		InjectionTime: AtDocumentStart,
	}
}

func AnnouncerScript() UserScript {
	return UserScript{
		Name:          AnnouncerScriptName,
		Source:        announcerProgram,
		InjectionTime: AtDocumentStart,
	}
}

// InitScript renders the configuration message for cfg.
func InitScript(cfg SessionConfiguration) (UserScript, error) {
	if err := cfg.Validate(); err != nil {
		return UserScript{}, err
	}

	msg, err := jsLiteral(newInitMessage(cfg))
	if err != nil {
		return UserScript{}, fmt.Errorf("encoding init message: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("(function (root, msg) {\n")
	sb.WriteString("  if (root.__statusWeb3Mock) { root.__statusWeb3Mock.configure(msg); }\n")
	sb.WriteString("  if (root.__statusWeb3Mock6963) { root.__statusWeb3Mock6963.configure(msg); }\n")
	sb.WriteString("})(typeof window !== 'undefined' ? window : this, ")
	sb.WriteString(msg)
	sb.WriteString(");\n")

	return UserScript{
		Name:          InitScriptName,
		Source:        sb.String(),
		InjectionTime: AtDocumentStart,
	}, nil
}

// UserScripts returns the provider, the announcer and the init message, in
// installation order.
func (g *ScriptGenerator) UserScripts() ([]UserScript, error) {
	return g.UserScriptsFor(g.session.Configuration())
}

// UserScriptsFor is UserScripts for an explicit configuration, used by hosts
// that adjust the transport per page.
func (g *ScriptGenerator) UserScriptsFor(cfg SessionConfiguration) ([]UserScript, error) {
	initScript, err := InitScript(cfg)
	if err != nil {
		return nil, err
	}
	return []UserScript{ProviderScript(), AnnouncerScript(), initScript}, nil
}

// Bundle concatenates the user scripts into a single program.
func Bundle(scripts []UserScript) string {
	var sb strings.Builder
	for _, s := range scripts {
		sb.WriteString("// ")
		sb.WriteString(s.Name)
		sb.WriteString("\n")
		sb.WriteString(s.Source)
		if !strings.HasSuffix(s.Source, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// DeliveryScript renders the instruction settling pending entry d.ID.
func DeliveryScript(d *Delivery) (string, error) {
	id, err := jsLiteral(d.ID)
	if err != nil {
		return "", err
	}

	errLit := "null"
	resultLit := "null"
	if d.Error != nil {
		if errLit, err = jsLiteral(d.Error); err != nil {
			return "", err
		}
	} else if d.Result != nil {
		if resultLit, err = jsLiteral(d.Result); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("window.__statusWeb3Mock && window.__statusWeb3Mock.deliver(%s, %s, %s);", id, errLit, resultLit), nil
}

// EventScript renders a simulated provider event.
func EventScript(n *Notification) (string, error) {
	name, err := jsLiteral(n.Name)
	if err != nil {
		return "", err
	}
	data, err := jsLiteral(n.Data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("window.__statusWeb3Mock && window.__statusWeb3Mock.simulate(%s, %s);", name, data), nil
}

// TeardownScript rejects every pending request of the current page.
func TeardownScript() string {
	return "window.__statusWeb3Mock && window.__statusWeb3Mock.teardown();"
}
