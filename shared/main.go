package main

// #cgo LDFLAGS: -shared
// #include <stdlib.h>
import "C"

import (
	"encoding/json"
	"errors"
	"sync"
	"unsafe"

	w3m "github.com/status-im/status-web3-mock-go"
	"github.com/status-im/status-web3-mock-go/signal"
)

func main() {}

var (
	mu         sync.Mutex
	session    *w3m.Session
	bridge     *w3m.Bridge
	generator  *w3m.ScriptGenerator
	dispatcher *w3m.MockDispatcher
)

var errNotStarted = errors.New("not started")

// signalDeliverer hands native -> content instructions to the host, which
// evaluates them in the WebView.
type signalDeliverer struct{}

func (d signalDeliverer) Deliver(delivery *w3m.Delivery) {
	script, err := w3m.DeliveryScript(delivery)
	if err != nil {
		signal.SendDropped(err.Error())
		return
	}
	signal.SendEvaluate(signal.EvaluateEvent{Script: script, ID: delivery.ID})
}

func (d signalDeliverer) Notify(n *w3m.Notification) {
	script, err := w3m.EventScript(n)
	if err != nil {
		signal.SendDropped(err.Error())
		return
	}
	signal.SendEvaluate(signal.EvaluateEvent{Script: script})
}

func retErr(err error) *C.char {
	if err == nil {
		return C.CString("ok")
	}
	return C.CString(err.Error())
}

func retJSON(v interface{}) *C.char {
	data, err := json.Marshal(v)
	if err != nil {
		return retErr(err)
	}
	return C.CString(string(data))
}

func jsonToConfiguration(jsonConfig *C.char, base w3m.SessionConfiguration) (w3m.SessionConfiguration, error) {
	bytes := []byte(C.GoString(jsonConfig))
	if len(bytes) == 0 {
		return base, nil
	}
	if err := json.Unmarshal(bytes, &base); err != nil {
		return base, err
	}
	return base, nil
}

func currentBridge() *w3m.Bridge {
	mu.Lock()
	defer mu.Unlock()
	return bridge
}

//export Web3MockInit
func Web3MockInit(jsonConfig *C.char) *C.char {
	cfg, err := jsonToConfiguration(jsonConfig, w3m.DefaultSessionConfiguration())
	if err != nil {
		return retErr(err)
	}

	s, err := w3m.NewSession(cfg)
	if err != nil {
		return retErr(err)
	}

	d := w3m.NewMockDispatcher()

	mu.Lock()
	old := bridge
	session = s
	dispatcher = d
	generator = w3m.NewScriptGenerator(s)
	bridge = w3m.NewBridge(s, d, signalDeliverer{})
	mu.Unlock()

	if old != nil {
		old.Close()
	}

	return retErr(nil)
}

//export Web3MockUpdateSession
func Web3MockUpdateSession(jsonConfig *C.char) *C.char {
	mu.Lock()
	s := session
	mu.Unlock()
	if s == nil {
		return retErr(errNotStarted)
	}

	cfg, err := jsonToConfiguration(jsonConfig, s.Configuration())
	if err != nil {
		return retErr(err)
	}

	return retErr(s.Update(func(c *w3m.SessionConfiguration) { *c = cfg }))
}

//export Web3MockUserScripts
func Web3MockUserScripts() *C.char {
	mu.Lock()
	g := generator
	mu.Unlock()
	if g == nil {
		return retErr(errNotStarted)
	}

	scripts, err := g.UserScripts()
	if err != nil {
		return retErr(err)
	}
	return retJSON(scripts)
}

//export Web3MockHandleMessage
func Web3MockHandleMessage(jsonMessage *C.char) *C.char {
	b := currentBridge()
	if b == nil {
		return retErr(errNotStarted)
	}
	return retErr(b.HandleMessage([]byte(C.GoString(jsonMessage))))
}

//export Web3MockSimulateEvent
func Web3MockSimulateEvent(name *C.char, jsonData *C.char) *C.char {
	b := currentBridge()
	if b == nil {
		return retErr(errNotStarted)
	}

	var data interface{}
	if raw := C.GoString(jsonData); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return retErr(err)
		}
	}
	return retErr(b.SimulateEvent(C.GoString(name), data))
}

//export Web3MockTeardown
func Web3MockTeardown() *C.char {
	b := currentBridge()
	if b == nil {
		return retErr(errNotStarted)
	}
	b.Teardown()
	return retErr(nil)
}

//export Web3MockListIdentities
func Web3MockListIdentities() *C.char {
	type identity struct {
		Key string `json:"key"`
		w3m.ProviderIdentity
	}

	var out []identity
	for _, k := range w3m.Identities() {
		out = append(out, identity{Key: k.String(), ProviderIdentity: w3m.Identity(k)})
	}
	return retJSON(out)
}

//export Web3MockSupportedMethods
func Web3MockSupportedMethods() *C.char {
	mu.Lock()
	d := dispatcher
	mu.Unlock()
	if d == nil {
		return retErr(errNotStarted)
	}
	return retJSON(d.SortedMethods())
}

//export Free
func Free(param unsafe.Pointer) {
	C.free(param)
}

//export Web3MockSetSignalEventCallback
func Web3MockSetSignalEventCallback(cb unsafe.Pointer) {
	signal.SetSignalEventCallback(cb)
}
