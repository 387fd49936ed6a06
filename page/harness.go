package page

import (
	"sync"

	w3m "github.com/status-im/status-web3-mock-go"
)

// Harness wires pages to a bridge the way a WebView host does: scripts are
// rebuilt from the session on every load, posted messages go to the bridge
// and deliveries land in whichever page is current.
type Harness struct {
	Session    *w3m.Session
	Dispatcher *w3m.MockDispatcher
	Bridge     *w3m.Bridge

	generator *w3m.ScriptGenerator

	mu   sync.Mutex
	page *Page
}

func NewHarness(cfg w3m.SessionConfiguration) (*Harness, error) {
	session, err := w3m.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		Session:    session,
		Dispatcher: w3m.NewMockDispatcher(),
		generator:  w3m.NewScriptGenerator(session),
	}
	h.Bridge = w3m.NewBridge(session, h.Dispatcher, h)

	return h, nil
}

func (h *Harness) current() *Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

func (h *Harness) Deliver(d *w3m.Delivery) {
	if p := h.current(); p != nil {
		p.Deliverer().Deliver(d)
	}
}

func (h *Harness) Notify(n *w3m.Notification) {
	if p := h.current(); p != nil {
		p.Deliverer().Notify(n)
	}
}

func (h *Harness) post(handler string, raw []byte) {
	if err := h.Bridge.HandleMessage(raw); err != nil {
		logger.Debug("bridge rejected message", "handler", handler, "error", err)
	}
}

// Load tears down the current page, if any, and opens a fresh one with the
// scripts built from the current session configuration.
func (h *Harness) Load() (*Page, error) {
	return h.load("")
}

// load is Load with prelude evaluated in the fresh page before the user
// scripts are installed.
func (h *Harness) load(prelude string) (*Page, error) {
	h.unload()

	scripts, err := h.generator.UserScripts()
	if err != nil {
		return nil, err
	}

	cfg := h.Session.Configuration()
	p, err := New(Options{
		Handlers: []string{cfg.Transport.Handler},
		Post:     h.post,
	})
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.page = p
	h.mu.Unlock()

	if prelude != "" {
		if _, err := p.Evaluate(prelude); err != nil {
			h.unload()
			return nil, err
		}
	}
	if err := p.Install(scripts); err != nil {
		h.unload()
		return nil, err
	}

	return p, nil
}

func (h *Harness) unload() {
	h.mu.Lock()
	p := h.page
	h.page = nil
	h.mu.Unlock()

	if p != nil {
		h.Bridge.Teardown()
		p.Teardown()
	}
}

// Close discards the page and stops the bridge.
func (h *Harness) Close() {
	h.unload()
	h.Bridge.Close()
}
