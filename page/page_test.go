package page

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	w3m "github.com/status-im/status-web3-mock-go"
)

const (
	testAddress = "0x1234567890AbcdEF1234567890aBcdef12345678"
	waitTimeout = 2 * time.Second
)

// recorder captures provider events and EIP-6963 announcements from the
// moment the provider is initialized.
const recorder = `
window.events = [];
window.announces = [];
addEventListener('ethereum#initialized', function () {
  ['connect', 'disconnect', 'accountsChanged', 'chainChanged'].forEach(function (name) {
    ethereum.on(name, function (data) {
      if (data instanceof Error) {
        data = { code: data.code, message: data.message };
      }
      events.push({ name: name, data: data });
    });
  });
});
addEventListener('eip6963:announceProvider', function (e) {
  announces.push({
    uuid: e.detail.info.uuid,
    name: e.detail.info.name,
    rdns: e.detail.info.rdns,
    icon: e.detail.info.icon,
    isEthereum: e.detail.provider === window.ethereum,
    frozen: Object.isFrozen(e.detail)
  });
});
`

type event struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

type outcome struct {
	OK      bool            `json:"ok"`
	Result  json.RawMessage `json:"result"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
}

func testConfig() w3m.SessionConfiguration {
	cfg := w3m.DefaultSessionConfiguration()
	cfg.TestAddress = testAddress
	cfg.AutoconnectDelayMs = 20
	cfg.AnnounceDelayMs = 10
	return cfg
}

func setupPage(t *testing.T, cfg w3m.SessionConfiguration) (*Harness, *Page) {
	t.Helper()

	h, err := NewHarness(cfg)
	require.NoError(t, err)
	t.Cleanup(h.Close)

	p, err := h.load(recorder)
	require.NoError(t, err)
	return h, p
}

func evalJSON(t *testing.T, p *Page, expr string, out interface{}) {
	t.Helper()

	v, err := p.Evaluate("JSON.stringify(" + expr + ")")
	require.NoError(t, err)
	s, ok := v.(string)
	require.True(t, ok, "%s did not produce JSON", expr)
	require.NoError(t, json.Unmarshal([]byte(s), out))
}

// request issues an EIP-1193 request from content and waits for it to settle.
func request(t *testing.T, p *Page, args string) outcome {
	t.Helper()

	slot := "__out" + strings.NewReplacer("-", "_", "/", "_").Replace(t.Name())
	p.Run(`window.` + slot + ` = undefined;
ethereum.request(` + args + `).then(function (r) {
  window.` + slot + ` = { ok: true, result: r };
}, function (e) {
  window.` + slot + ` = { ok: false, code: e.code, message: e.message };
});`)
	require.NoError(t, p.WaitFor("window."+slot+" !== undefined", waitTimeout))

	var o outcome
	evalJSON(t, p, "window."+slot, &o)
	return o
}

func events(t *testing.T, p *Page) []event {
	t.Helper()
	var out []event
	evalJSON(t, p, "window.events", &out)
	return out
}

func eventNames(evs []event) []string {
	names := make([]string, 0, len(evs))
	for _, e := range evs {
		names = append(names, e.Name)
	}
	return names
}

type providerState struct {
	Status    string   `json:"status"`
	Accounts  []string `json:"accounts"`
	Connected bool     `json:"connected"`
	ChainID   string   `json:"chainId"`
	Pending   int      `json:"pending"`
}

func state(t *testing.T, p *Page) providerState {
	t.Helper()
	var s providerState
	evalJSON(t, p, "window.__statusWeb3Mock.state()", &s)
	return s
}

func TestProviderInstalled(t *testing.T) {
	_, p := setupPage(t, testConfig())

	v, err := p.Evaluate(`typeof window.ethereum === 'object' && ethereum.isMetaMask === true && !ethereum.isConnected()`)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = p.Evaluate(`ethereum.chainId + '/' + ethereum.networkVersion`)
	require.NoError(t, err)
	assert.Equal(t, "0x1/1", v)

	s := state(t, p)
	assert.Equal(t, w3m.StateUninitialized, s.Status)
	assert.Empty(t, s.Accounts)
}

func TestInitializedEventFiresOnce(t *testing.T) {
	h, err := NewHarness(testConfig())
	require.NoError(t, err)
	t.Cleanup(h.Close)

	p, err := h.load(`window.initialized = 0;
addEventListener('ethereum#initialized', function () { initialized++; });`)
	require.NoError(t, err)

	v, err := p.Evaluate("initialized")
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestIdentityFlagsAndAliases(t *testing.T) {
	tests := []struct {
		key   w3m.IdentityKey
		check string
	}{
		{w3m.MetaMask, `ethereum.isMetaMask === true && ethereum.isRainbow === undefined`},
		{w3m.CoinbaseWallet, `ethereum.isCoinbaseWallet === true && window.coinbaseWalletExtension === ethereum`},
		{w3m.Rainbow, `ethereum.isRainbow === true && ethereum.isMetaMask === true && window.rainbow === ethereum`},
		{w3m.TrustWallet, `ethereum.isTrust === true && ethereum.isTrustWallet === true && window.trustwallet === ethereum`},
		{w3m.Status, `ethereum.isStatus === true && ethereum.isMetaMask === undefined`},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			cfg := testConfig()
			cfg.Identity = tt.key
			_, p := setupPage(t, cfg)

			v, err := p.Evaluate(tt.check)
			require.NoError(t, err)
			assert.Equal(t, true, v)
		})
	}
}

func TestEmitReachesEveryListener(t *testing.T) {
	_, p := setupPage(t, testConfig())

	v, err := p.Evaluate(`
var calls = [];
ethereum.on('x', function (a) { calls.push('first:' + a); throw new Error('boom'); });
ethereum.on('x', function (a) { calls.push('second:' + a); });
ethereum.on('x', function (a) { calls.push('third:' + a); });
ethereum.emit('x', 7);
calls.join(',');`)
	require.NoError(t, err)
	assert.Equal(t, "first:7,second:7,third:7", v)
}

func TestEmitUsesListenerSnapshot(t *testing.T) {
	_, p := setupPage(t, testConfig())

	v, err := p.Evaluate(`
var calls = [];
function late() { calls.push('late'); }
ethereum.on('y', function () {
  calls.push('a');
  ethereum.on('y', late);
});
ethereum.emit('y');
var first = calls.join(',');
ethereum.emit('y');
first + '|' + calls.join(',');`)
	require.NoError(t, err)
	assert.Equal(t, "a|a,a,late", v)
}

func TestOnceAndRemoveListener(t *testing.T) {
	_, p := setupPage(t, testConfig())

	v, err := p.Evaluate(`
var n = 0, m = 0;
ethereum.once('z', function () { n++; });
function counter() { m++; }
ethereum.on('z', counter);
ethereum.emit('z');
ethereum.emit('z');
ethereum.removeListener('z', counter);
ethereum.emit('z');
[n, m, ethereum.listenerCount('z')].join(',');`)
	require.NoError(t, err)
	assert.Equal(t, "1,2,0", v)

	v, err = p.Evaluate(`
ethereum.on('a', function () {});
ethereum.addListener('b', function () {});
var names = ethereum.eventNames().filter(function (n) { return n === 'a' || n === 'b'; }).sort().join(',');
ethereum.removeAllListeners('a');
names + '|' + ethereum.listenerCount('a') + '|' + ethereum.listeners('b').length;`)
	require.NoError(t, err)
	assert.Equal(t, "a,b|0|1", v)
}

func TestAutoconnect(t *testing.T) {
	cfg := testConfig()
	cfg.Autoconnect = true
	h, p := setupPage(t, cfg)

	require.NoError(t, p.WaitFor("events.length >= 2", waitTimeout))

	evs := events(t, p)
	require.Equal(t, []string{w3m.EventConnect, w3m.EventAccountsChanged}, eventNames(evs))
	assert.JSONEq(t, `{"chainId":"0x1"}`, string(evs[0].Data))
	assert.JSONEq(t, `["`+strings.ToLower(testAddress)+`"]`, string(evs[1].Data))

	s := state(t, p)
	assert.Equal(t, w3m.StateConnected, s.Status)
	assert.True(t, s.Connected)
	assert.Equal(t, []string{strings.ToLower(testAddress)}, s.Accounts)

	// Asking again for the same account changes nothing.
	o := request(t, p, `{ method: 'eth_accounts' }`)
	require.True(t, o.OK)
	assert.JSONEq(t, `["`+strings.ToLower(testAddress)+`"]`, string(o.Result))

	h.Bridge.Wait()
	assert.Len(t, events(t, p), 2)
}

func TestNoAutoconnectWithoutAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Autoconnect = true
	cfg.TestAddress = ""
	_, p := setupPage(t, cfg)

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, events(t, p))
	assert.Equal(t, w3m.StateUninitialized, state(t, p).Status)
}

func TestRequestAccountsConnects(t *testing.T) {
	_, p := setupPage(t, testConfig())

	o := request(t, p, `{ method: 'eth_requestAccounts' }`)
	require.True(t, o.OK)
	assert.JSONEq(t, `["`+strings.ToLower(testAddress)+`"]`, string(o.Result))

	assert.Equal(t, []string{w3m.EventConnect, w3m.EventAccountsChanged}, eventNames(events(t, p)))
	assert.Equal(t, w3m.StateConnected, state(t, p).Status)

	v, err := p.Evaluate("ethereum.selectedAddress")
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(testAddress), v)
}

func TestRequestAccountsWithoutAddress(t *testing.T) {
	cfg := testConfig()
	cfg.TestAddress = ""
	_, p := setupPage(t, cfg)

	o := request(t, p, `{ method: 'eth_requestAccounts' }`)
	require.True(t, o.OK)
	assert.JSONEq(t, `[]`, string(o.Result))

	assert.Empty(t, events(t, p))
	assert.Equal(t, w3m.StateUninitialized, state(t, p).Status)
}

func TestChainIDNeverFiresChainChanged(t *testing.T) {
	cfg := testConfig()
	cfg.ChainID = 137
	_, p := setupPage(t, cfg)

	for i := 0; i < 2; i++ {
		o := request(t, p, `{ method: 'eth_chainId' }`)
		require.True(t, o.OK)
		assert.JSONEq(t, `"0x89"`, string(o.Result))
	}

	o := request(t, p, `{ method: 'net_version' }`)
	require.True(t, o.OK)
	assert.JSONEq(t, `"137"`, string(o.Result))

	assert.NotContains(t, eventNames(events(t, p)), w3m.EventChainChanged)
}

func TestUnsupportedMethodRejects(t *testing.T) {
	_, p := setupPage(t, testConfig())

	o := request(t, p, `{ method: 'eth_foo', params: [] }`)
	assert.False(t, o.OK)
	assert.Equal(t, w3m.CodeUnsupportedMethod, o.Code)
	assert.Contains(t, o.Message, "eth_foo")

	assert.Empty(t, events(t, p))
	assert.Zero(t, state(t, p).Pending)
}

func TestInvalidRequestArguments(t *testing.T) {
	_, p := setupPage(t, testConfig())

	for _, args := range []string{`{}`, `{ method: '' }`, `'eth_chainId'`, `{ method: 'eth_chainId', params: 5 }`} {
		o := request(t, p, args)
		assert.False(t, o.OK, args)
		assert.Equal(t, w3m.CodeInvalidRequest, o.Code, args)
	}
}

func TestObjectParamsAreWrapped(t *testing.T) {
	_, p := setupPage(t, testConfig())

	o := request(t, p, `{ method: 'wallet_watchAsset', params: { type: 'ERC20', options: { address: '0x0' } } }`)
	require.True(t, o.OK)
	assert.JSONEq(t, `true`, string(o.Result))
}

func TestEveryRequestSettlesOnce(t *testing.T) {
	h, p := setupPage(t, testConfig())

	_, err := p.Evaluate(`
window.settled = {};
var methods = ['eth_chainId', 'eth_blockNumber', 'eth_foo', 'eth_gasPrice', 'personal_sign'];
for (var i = 0; i < 25; i++) {
  (function (i) {
    var m = methods[i % methods.length];
    var params = m === 'personal_sign' ? ['hello', '` + testAddress + `'] : [];
    ethereum.request({ method: m, params: params }).then(function () {
      settled[i] = (settled[i] || 0) + 1;
    }, function () {
      settled[i] = (settled[i] || 0) + 1;
    });
  })(i);
}`)
	require.NoError(t, err)
	require.NoError(t, p.WaitFor("Object.keys(settled).length === 25", waitTimeout))

	h.Bridge.Wait()
	// A repeated delivery for a settled id is ignored.
	v, err := p.Evaluate(`__statusWeb3Mock.deliver('w3m-1-unknown', null, 1)`)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	var counts map[string]int
	evalJSON(t, p, "settled", &counts)
	for k, n := range counts {
		assert.Equal(t, 1, n, "request %s", k)
	}
	assert.Zero(t, state(t, p).Pending)
}

func TestPersonalSignIsDeterministic(t *testing.T) {
	_, p := setupPage(t, testConfig())

	first := request(t, p, `{ method: 'personal_sign', params: ['hello', '`+testAddress+`'] }`)
	second := request(t, p, `{ method: 'personal_sign', params: ['hello', '`+testAddress+`'] }`)
	require.True(t, first.OK)
	require.True(t, second.OK)
	assert.Equal(t, string(first.Result), string(second.Result))
}

func slowMethod(h *Harness, release <-chan struct{}) {
	h.Dispatcher.Register("eth_slow", func(ctx context.Context, _ *w3m.Call) (interface{}, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return "late", nil
	})
}

func TestRequestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeoutMs = 50
	cfg.Debug = true
	h, p := setupPage(t, cfg)

	release := make(chan struct{})
	slowMethod(h, release)

	o := request(t, p, `{ method: 'eth_slow' }`)
	assert.False(t, o.OK)
	assert.Equal(t, w3m.CodeInternal, o.Code)
	assert.Contains(t, o.Message, "timed out")
	assert.Zero(t, state(t, p).Pending)

	// The late result finds no pending entry.
	close(release)
	h.Bridge.Wait()
	require.Eventually(t, func() bool {
		return len(p.LogsContaining("dropping delivery for unknown id")) > 0
	}, waitTimeout, 5*time.Millisecond)
}

func TestNoTimeoutByDefault(t *testing.T) {
	h, p := setupPage(t, testConfig())

	release := make(chan struct{})
	slowMethod(h, release)

	p.Run(`window.slow = undefined; ethereum.request({ method: 'eth_slow' }).then(function (r) { slow = r; });`)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, state(t, p).Pending)

	close(release)
	require.NoError(t, p.WaitFor(`slow === 'late'`, waitTimeout))
}

func TestReloadDropsInFlightDeliveries(t *testing.T) {
	h, old := setupPage(t, testConfig())

	release := make(chan struct{})
	slowMethod(h, release)
	old.Run(`ethereum.request({ method: 'eth_slow' });`)
	require.Eventually(t, func() bool { return state(t, old).Pending == 1 }, waitTimeout, 5*time.Millisecond)

	fresh, err := h.load(recorder)
	require.NoError(t, err)

	_, err = old.Evaluate("1")
	require.ErrorIs(t, err, ErrTornDown)

	close(release)
	h.Bridge.Wait()

	// Nothing reaches the fresh page; it is still fully functional.
	assert.Zero(t, state(t, fresh).Pending)
	assert.Empty(t, fresh.LogsContaining("dropping delivery"))

	o := request(t, fresh, `{ method: 'eth_chainId' }`)
	require.True(t, o.OK)
}

func TestContentTeardownRejectsPending(t *testing.T) {
	h, p := setupPage(t, testConfig())

	release := make(chan struct{})
	defer close(release)
	slowMethod(h, release)

	p.Run(`window.torn = undefined;
ethereum.request({ method: 'eth_slow' }).catch(function (e) { torn = e.code; });`)
	require.Eventually(t, func() bool { return state(t, p).Pending == 1 }, waitTimeout, 5*time.Millisecond)

	p.Run(w3m.TeardownScript())
	require.NoError(t, p.WaitFor(`torn !== undefined`, waitTimeout))

	v, err := p.Evaluate("torn")
	require.NoError(t, err)
	assert.EqualValues(t, w3m.CodeDisconnected, v)
}

func TestPageTeardown(t *testing.T) {
	_, p := setupPage(t, testConfig())

	p.Teardown()
	p.Teardown()

	_, err := p.Evaluate("1")
	require.ErrorIs(t, err, ErrTornDown)
	require.ErrorIs(t, p.WaitFor("true", time.Millisecond), ErrTornDown)

	// Deliveries into a gone page are silent no-ops.
	p.Run("throw new Error('never runs')")
	p.Deliverer().Deliver(&w3m.Delivery{ID: "w3m-1-x", Result: "0x1"})
	p.Deliverer().Notify(&w3m.Notification{Name: w3m.EventConnect})
	assert.Empty(t, p.LogsContaining("never runs"))
}

func TestAnnounceProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Identity = w3m.Status
	_, p := setupPage(t, cfg)

	// One announcement arrives on its own shortly after load.
	require.NoError(t, p.WaitFor("announces.length === 1", waitTimeout))

	for i := 0; i < 3; i++ {
		v, err := p.Evaluate(`var before = announces.length;
dispatchEvent(new Event('eip6963:requestProvider'));
announces.length - before;`)
		require.NoError(t, err)
		assert.EqualValues(t, 1, v)
	}

	var announces []struct {
		UUID       string `json:"uuid"`
		Name       string `json:"name"`
		RDNS       string `json:"rdns"`
		Icon       string `json:"icon"`
		IsEthereum bool   `json:"isEthereum"`
		Frozen     bool   `json:"frozen"`
	}
	evalJSON(t, p, "announces", &announces)
	require.Len(t, announces, 4)

	id := w3m.Identity(w3m.Status)
	for _, a := range announces {
		assert.Equal(t, id.UUID.String(), a.UUID)
		assert.Equal(t, id.Name, a.Name)
		assert.Equal(t, id.RDNS, a.RDNS)
		assert.Equal(t, id.Icon, a.Icon)
		assert.True(t, a.IsEthereum)
		assert.True(t, a.Frozen)
	}
}

func TestLegacyInterfaces(t *testing.T) {
	_, p := setupPage(t, testConfig())

	t.Run("enable", func(t *testing.T) {
		p.Run(`window.enabled = undefined; ethereum.enable().then(function (a) { enabled = a; });`)
		require.NoError(t, p.WaitFor("enabled !== undefined", waitTimeout))

		var accounts []string
		evalJSON(t, p, "enabled", &accounts)
		assert.Equal(t, []string{strings.ToLower(testAddress)}, accounts)
	})

	t.Run("send with method name", func(t *testing.T) {
		p.Run(`window.sent = undefined; ethereum.send('eth_chainId').then(function (r) { sent = r; });`)
		require.NoError(t, p.WaitFor("sent !== undefined", waitTimeout))

		v, err := p.Evaluate("sent")
		require.NoError(t, err)
		assert.Equal(t, "0x1", v)
	})

	t.Run("sendAsync", func(t *testing.T) {
		p.Run(`window.asyncRes = undefined;
ethereum.sendAsync({ id: 7, jsonrpc: '2.0', method: 'net_version', params: [] }, function (err, res) {
  asyncRes = { err: err, res: res };
});`)
		require.NoError(t, p.WaitFor("asyncRes !== undefined", waitTimeout))

		var got struct {
			Err interface{} `json:"err"`
			Res struct {
				ID      int    `json:"id"`
				JSONRPC string `json:"jsonrpc"`
				Result  string `json:"result"`
			} `json:"res"`
		}
		evalJSON(t, p, "asyncRes", &got)
		assert.Nil(t, got.Err)
		assert.Equal(t, 7, got.Res.ID)
		assert.Equal(t, "2.0", got.Res.JSONRPC)
		assert.Equal(t, "1", got.Res.Result)
	})

	t.Run("sendAsync batch", func(t *testing.T) {
		p.Run(`window.batch = undefined;
ethereum.sendAsync([
  { id: 1, method: 'eth_chainId' },
  { id: 2, method: 'eth_foo' }
], function (err, res) { batch = res; });`)
		require.NoError(t, p.WaitFor("batch !== undefined", waitTimeout))

		var got []struct {
			ID     int    `json:"id"`
			Result string `json:"result"`
			Error  *struct {
				Code int `json:"code"`
			} `json:"error"`
		}
		evalJSON(t, p, "batch", &got)
		require.Len(t, got, 2)
		assert.Equal(t, "0x1", got[0].Result)
		require.NotNil(t, got[1].Error)
		assert.Equal(t, w3m.CodeUnsupportedMethod, got[1].Error.Code)
	})

	t.Run("synchronous send", func(t *testing.T) {
		var res struct {
			Result []string `json:"result"`
		}
		evalJSON(t, p, `ethereum.send({ id: 3, method: 'eth_accounts' })`, &res)
		assert.Equal(t, []string{strings.ToLower(testAddress)}, res.Result)

		v, err := p.Evaluate(`try { ethereum.send({ id: 4, method: 'eth_sendTransaction' }); 'no error'; } catch (e) { e.code; }`)
		require.NoError(t, err)
		assert.EqualValues(t, w3m.CodeUnsupportedMethod, v)
	})
}

func TestSimulatedEvents(t *testing.T) {
	h, p := setupPage(t, testConfig())

	o := request(t, p, `{ method: 'eth_requestAccounts' }`)
	require.True(t, o.OK)

	require.NoError(t, h.Bridge.SimulateEvent(w3m.EventChainChanged, "0x89"))
	require.NoError(t, p.WaitFor("ethereum.chainId === '0x89'", waitTimeout))

	v, err := p.Evaluate("ethereum.networkVersion")
	require.NoError(t, err)
	assert.Equal(t, "137", v)

	// The provider now reports the new chain to the bridge too.
	o = request(t, p, `{ method: 'eth_chainId' }`)
	require.True(t, o.OK)
	assert.JSONEq(t, `"0x89"`, string(o.Result))

	require.NoError(t, h.Bridge.SimulateEvent(w3m.EventDisconnect, nil))
	require.NoError(t, p.WaitFor("!ethereum.isConnected()", waitTimeout))

	evs := events(t, p)
	assert.Equal(t, []string{
		w3m.EventConnect,
		w3m.EventAccountsChanged,
		w3m.EventChainChanged,
		w3m.EventDisconnect,
		w3m.EventAccountsChanged,
	}, eventNames(evs))
	assert.JSONEq(t, `"0x89"`, string(evs[2].Data))
	assert.Contains(t, string(evs[3].Data), `"code":4900`)
	assert.JSONEq(t, `[]`, string(evs[4].Data))

	s := state(t, p)
	assert.Equal(t, w3m.StateDisconnected, s.Status)
	assert.Empty(t, s.Accounts)

	// An account change alone does not reconnect a disconnected provider.
	require.NoError(t, h.Bridge.SimulateEvent(w3m.EventAccountsChanged, []string{testAddress}))
	require.NoError(t, p.WaitFor("events.length === 6", waitTimeout))

	evs = events(t, p)
	assert.Equal(t, w3m.EventAccountsChanged, evs[5].Name)
	assert.JSONEq(t, `["`+strings.ToLower(testAddress)+`"]`, string(evs[5].Data))
	s = state(t, p)
	assert.Equal(t, w3m.StateDisconnected, s.Status)
	assert.False(t, s.Connected)
	assert.Equal(t, []string{strings.ToLower(testAddress)}, s.Accounts)

	require.NoError(t, h.Bridge.SimulateEvent(w3m.EventConnect, nil))
	require.NoError(t, p.WaitFor("ethereum.isConnected()", waitTimeout))
	assert.Equal(t, w3m.StateConnected, state(t, p).Status)
}

func TestSimulatedCustomEvent(t *testing.T) {
	h, p := setupPage(t, testConfig())

	_, err := p.Evaluate(`window.custom = undefined; ethereum.on('message', function (m) { custom = m; });`)
	require.NoError(t, err)

	require.NoError(t, h.Bridge.SimulateEvent("message", map[string]interface{}{"type": "eth_subscription"}))
	require.NoError(t, p.WaitFor("custom !== undefined", waitTimeout))

	v, err := p.Evaluate("custom.type")
	require.NoError(t, err)
	assert.Equal(t, "eth_subscription", v)
}

func TestMissingMessageHandler(t *testing.T) {
	session, err := w3m.NewSession(testConfig())
	require.NoError(t, err)
	scripts, err := w3m.NewScriptGenerator(session).UserScripts()
	require.NoError(t, err)

	p, err := New(Options{Handlers: []string{"someoneElse"}})
	require.NoError(t, err)
	t.Cleanup(p.Teardown)

	_, err = p.Evaluate(recorder)
	require.NoError(t, err)
	require.NoError(t, p.Install(scripts))

	o := request(t, p, `{ method: 'eth_chainId' }`)
	assert.False(t, o.OK)
	assert.Equal(t, w3m.CodeDisconnected, o.Code)
	assert.Zero(t, state(t, p).Pending)
}

func TestUnconfiguredProvider(t *testing.T) {
	p, err := New(Options{})
	require.NoError(t, err)
	t.Cleanup(p.Teardown)

	require.NoError(t, p.Install([]w3m.UserScript{w3m.ProviderScript()}))
	_, err = p.Evaluate("window.ethereum = window.__statusWeb3Mock.provider")
	require.NoError(t, err)

	o := request(t, p, `{ method: 'eth_chainId' }`)
	assert.False(t, o.OK)
	assert.Equal(t, w3m.CodeDisconnected, o.Code)
}

func TestDebugLogging(t *testing.T) {
	cfg := testConfig()
	cfg.Debug = true
	_, p := setupPage(t, cfg)

	request(t, p, `{ method: 'eth_chainId' }`)
	assert.NotEmpty(t, p.LogsContaining("[web3mock]"))
}

func TestQuietWithoutDebug(t *testing.T) {
	_, p := setupPage(t, testConfig())

	request(t, p, `{ method: 'eth_chainId' }`)
	assert.Empty(t, p.LogsContaining("[web3mock]"))
}

func TestTimers(t *testing.T) {
	p, err := New(Options{})
	require.NoError(t, err)
	t.Cleanup(p.Teardown)

	p.Run(`window.fired = [];
setTimeout(function (x) { fired.push(x); }, 5, 'a');
var cancelled = setTimeout(function () { fired.push('cancelled'); }, 5);
clearTimeout(cancelled);
setTimeout(function () { fired.push('b'); }, 15);`)
	require.NoError(t, p.WaitFor("fired.length === 2", waitTimeout))

	time.Sleep(20 * time.Millisecond)
	v, err := p.Evaluate("fired.join(',')")
	require.NoError(t, err)
	assert.Equal(t, "a,b", v)
}

func TestWaitForTimesOut(t *testing.T) {
	p, err := New(Options{})
	require.NoError(t, err)
	t.Cleanup(p.Teardown)

	err = p.WaitFor("false", 20*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
