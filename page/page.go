// Package page is a headless, single-threaded content environment. It runs
// the provider programs in a JavaScript runtime the way an embedded WebView
// would: one event loop, timers, DOM events and a WebKit style message
// handler bridge.
package page

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/ethereum/go-ethereum/log"

	w3m "github.com/status-im/status-web3-mock-go"
)

//go:embed shim.js
var shimProgram string

var ErrTornDown = errors.New("page torn down")

// All general log messages in this package should be routed through this logger.
var logger = log.New("package", "status-web3-mock/page")

// PostFunc receives every message the content program posts to a handler.
// It runs on the page's event loop and must not block.
type PostFunc func(handler string, raw []byte)

type Options struct {
	// Handlers are the window.webkit.messageHandlers names to install.
	Handlers []string
	Post     PostFunc
}

// LogEntry is one console line written by the content program.
type LogEntry struct {
	Level string
	Text  string
}

// Page owns a goja runtime. Everything that touches the runtime runs on the
// page's loop goroutine.
type Page struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
	exited chan struct{}

	vm        *goja.Runtime
	timers    map[int64]*time.Timer
	nextTimer int64
	post      PostFunc

	logMu sync.Mutex
	logs  []LogEntry
}

func New(opts Options) (*Page, error) {
	p := &Page{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		vm:     goja.New(),
		timers: make(map[int64]*time.Timer),
		post:   opts.Post,
	}

	if err := p.setup(opts.Handlers); err != nil {
		return nil, err
	}

	go p.loop()

	return p, nil
}

func (p *Page) setup(handlers []string) error {
	vm := p.vm

	if err := vm.Set("setTimeout", p.setTimeout); err != nil {
		return err
	}
	if err := vm.Set("clearTimeout", p.clearTimeout); err != nil {
		return err
	}
	if err := vm.Set("__hostLog", p.hostLog); err != nil {
		return err
	}
	if err := vm.Set("__hostPostMessage", p.hostPostMessage); err != nil {
		return err
	}

	if _, err := vm.RunScript("shim.js", shimProgram); err != nil {
		return fmt.Errorf("installing page shim: %w", err)
	}

	if len(handlers) == 0 {
		handlers = []string{w3m.DefaultSessionConfiguration().Transport.Handler}
	}
	install, ok := goja.AssertFunction(vm.Get("__installMessageHandler"))
	if !ok {
		return errors.New("page shim did not define __installMessageHandler")
	}
	for _, h := range handlers {
		if _, err := install(goja.Undefined(), vm.ToValue(h)); err != nil {
			return err
		}
	}

	return nil
}

func (p *Page) enqueue(job func()) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, job)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return true
}

func (p *Page) next() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.queue) == 0 {
		return nil, false
	}
	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

func (p *Page) loop() {
	defer close(p.exited)
	defer p.stopTimers()

	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		for {
			job, ok := p.next()
			if !ok {
				break
			}
			job()
		}
	}
}

func (p *Page) stopTimers() {
	for id, t := range p.timers {
		t.Stop()
		delete(p.timers, id)
	}
}

func (p *Page) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(p.vm.NewTypeError("setTimeout requires a function"))
	}

	delay := call.Argument(1).ToInteger()
	if delay < 0 {
		delay = 0
	}

	var args []goja.Value
	if len(call.Arguments) > 2 {
		args = append(args, call.Arguments[2:]...)
	}

	p.nextTimer++
	id := p.nextTimer
	p.timers[id] = time.AfterFunc(time.Duration(delay)*time.Millisecond, func() {
		p.enqueue(func() {
			if _, ok := p.timers[id]; !ok {
				return
			}
			delete(p.timers, id)
			if _, err := fn(goja.Undefined(), args...); err != nil {
				p.appendLog("error", "timer callback: "+err.Error())
			}
		})
	})

	return p.vm.ToValue(id)
}

func (p *Page) clearTimeout(call goja.FunctionCall) goja.Value {
	id := call.Argument(0).ToInteger()
	if t, ok := p.timers[id]; ok {
		t.Stop()
		delete(p.timers, id)
	}
	return goja.Undefined()
}

func (p *Page) hostLog(level string, text string) {
	p.appendLog(level, text)
}

func (p *Page) appendLog(level string, text string) {
	p.logMu.Lock()
	p.logs = append(p.logs, LogEntry{Level: level, Text: text})
	p.logMu.Unlock()

	logger.Debug("console", "level", level, "text", text)
}

func (p *Page) hostPostMessage(handler string, raw string) {
	if p.post == nil {
		logger.Warn("message posted without a host", "handler", handler)
		return
	}
	p.post(handler, []byte(raw))
}

// Logs returns the console output written so far.
func (p *Page) Logs() []LogEntry {
	p.logMu.Lock()
	defer p.logMu.Unlock()
	return append([]LogEntry(nil), p.logs...)
}

// LogsContaining returns console lines that contain substr.
func (p *Page) LogsContaining(substr string) []LogEntry {
	var out []LogEntry
	for _, l := range p.Logs() {
		if strings.Contains(l.Text, substr) {
			out = append(out, l)
		}
	}
	return out
}

type result struct {
	value interface{}
	err   error
}

// Evaluate runs src on the loop and returns the exported completion value.
func (p *Page) Evaluate(src string) (interface{}, error) {
	res := make(chan result, 1)
	ok := p.enqueue(func() {
		v, err := p.vm.RunString(src)
		if err != nil {
			res <- result{err: err}
			return
		}
		res <- result{value: v.Export()}
	})
	if !ok {
		return nil, ErrTornDown
	}

	select {
	case r := <-res:
		return r.value, r.err
	case <-p.done:
		return nil, ErrTornDown
	}
}

// Run queues src without waiting. It is a silent no-op on a torn-down page.
func (p *Page) Run(src string) {
	p.enqueue(func() {
		if _, err := p.vm.RunString(src); err != nil {
			p.appendLog("error", err.Error())
		}
	})
}

// Install evaluates user scripts in order, as a WebView does at document start.
func (p *Page) Install(scripts []w3m.UserScript) error {
	for _, s := range scripts {
		if _, err := p.Evaluate(s.Source); err != nil {
			return fmt.Errorf("installing %s: %w", s.Name, err)
		}
	}
	return nil
}

// WaitFor polls expr until it evaluates truthy or timeout expires.
func (p *Page) WaitFor(expr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	src := "!!(" + expr + ")"
	for {
		v, err := p.Evaluate(src)
		if err != nil {
			return err
		}
		if b, _ := v.(bool); b {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %s", expr)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Teardown discards the runtime along with its pending callbacks and timers.
// Later deliveries are dropped.
func (p *Page) Teardown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.queue = nil
	p.mu.Unlock()

	close(p.done)
	<-p.exited
}

// Deliverer renders bridge output as scripts evaluated in this page.
func (p *Page) Deliverer() w3m.Deliverer {
	return pageDeliverer{p}
}

type pageDeliverer struct {
	p *Page
}

func (d pageDeliverer) Deliver(delivery *w3m.Delivery) {
	script, err := w3m.DeliveryScript(delivery)
	if err != nil {
		logger.Error("rendering delivery", "id", delivery.ID, "error", err)
		return
	}
	d.p.Run(script)
}

func (d pageDeliverer) Notify(n *w3m.Notification) {
	script, err := w3m.EventScript(n)
	if err != nil {
		logger.Error("rendering event", "event", n.Name, "error", err)
		return
	}
	d.p.Run(script)
}
