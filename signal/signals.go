package signal

/*
#include <stddef.h>
#include <stdbool.h>
#include <stdlib.h>
extern bool Web3MockServiceSignalEvent(const char *jsonEvent);
extern void Web3MockSetEventCallback(void *cb);
*/
import "C"
import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ethereum/go-ethereum/log"
)

// SignalHandler gets called with every JSON encoded envelope.
type SignalHandler func([]byte)

var (
	handlerMu     sync.RWMutex
	signalHandler SignalHandler

	// seq numbers envelopes so the host can detect reordering or loss.
	seq atomic.Uint64
)

// All general log messages in this package should be routed through this logger.
var logger = log.New("package", "status-web3-mock/signal")

// Envelope is a signal sent upward to the host application. ID names the
// bridge delivery the envelope settles, if any.
type Envelope struct {
	Seq   uint64      `json:"seq"`
	Type  string      `json:"type"`
	ID    string      `json:"id,omitempty"`
	Event interface{} `json:"event"`
}

// NewEnvelope creates a numbered envelope of the given type and payload.
func NewEnvelope(typ, id string, event interface{}) *Envelope {
	return &Envelope{
		Seq:   seq.Add(1),
		Type:  typ,
		ID:    id,
		Event: event,
	}
}

// Send sends a signal (in JSON) upwards to the host.
func Send(typ string, event interface{}) {
	send(NewEnvelope(typ, "", event))
}

func send(env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		logger.Error("Marshalling signal envelope", "type", env.Type, "id", env.ID, "error", err)
		return
	}

	handlerMu.RLock()
	handler := signalHandler
	handlerMu.RUnlock()

	if handler != nil {
		handler(data)
		return
	}

	str := C.CString(string(data))
	if !C.Web3MockServiceSignalEvent(str) {
		logger.Debug("No host callback for signal", "type", env.Type, "seq", env.Seq)
	}
	C.free(unsafe.Pointer(str))
}

// SetSignalHandler sets a pure Go handler; nil restores the C callback.
func SetSignalHandler(handler SignalHandler) {
	handlerMu.Lock()
	signalHandler = handler
	handlerMu.Unlock()
}

// SetSignalEventCallback sets the C callback (see `signals.c`).
func SetSignalEventCallback(cb unsafe.Pointer) {
	C.Web3MockSetEventCallback(cb)
}
