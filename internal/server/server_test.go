package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/metrics"
	"github.com/db47h/logicsim/logiclib"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, opts ...logicsim.Option) (*Server, *logiclib.Part) {
	t.Helper()
	c, p, err := logiclib.Build("half-adder")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sim := logicsim.NewSimulator(c, append(opts, logicsim.WithProbe(m.Probe()))...)
	return New(sim, Config{MetricsPath: "/metrics", Gatherer: reg, Metrics: m}), p
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) State {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var st State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

func TestHealthz(t *testing.T) {
	s, _ := newServer(t)
	w := do(t, s.Handler(), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetCircuit(t *testing.T) {
	s, _ := newServer(t)
	st := decodeState(t, do(t, s.Handler(), "GET", "/v1/circuit", ""))
	assert.False(t, st.Simulating)
	assert.True(t, st.Stable)
	assert.NotEmpty(t, st.Session)
	require.NotNil(t, st.Circuit)
	assert.Len(t, st.Circuit.Elements, 6)
	assert.Len(t, st.Circuit.Wires, 6)
}

func TestSimulation(t *testing.T) {
	s, p := newServer(t)
	h := s.Handler()
	st := decodeState(t, do(t, h, "PUT", "/v1/simulation", `{"on":true}`))
	assert.True(t, st.Simulating)
	assert.Empty(t, st.Lit)

	st = decodeState(t, do(t, h, "POST", fmt.Sprintf("/v1/switches/%d/toggle", p.In("a")), ""))
	assert.Equal(t, []logicsim.ElementID{p.Outputs[0].Element}, st.Lit)

	st = decodeState(t, do(t, h, "PUT", fmt.Sprintf("/v1/switches/%d", p.In("b")), `{"on":true}`))
	assert.Equal(t, []logicsim.ElementID{p.Outputs[1].Element}, st.Lit)

	st = decodeState(t, do(t, h, "PUT", "/v1/simulation", `{"on":false}`))
	assert.False(t, st.Simulating)
	assert.Empty(t, st.Lit)

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `logicsim_mutations_total{op="toggle",result="ok"} 1`)
	assert.Contains(t, w.Body.String(), `logicsim_evaluations_total{result="stable"} 3`)
}

func TestEdit(t *testing.T) {
	s, _ := newServer(t)
	h := s.Handler()

	w := do(t, h, "POST", "/v1/elements", `{"kind":"not","x":1,"y":2,"label":"inv"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var e elementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, logicsim.ElementID(7), e.ID)
	require.Len(t, e.Pins, 2)

	// order independent
	w = do(t, h, "POST", "/v1/wires", fmt.Sprintf(`{"a":%d,"b":%d}`, e.Pins[0], e.Pins[1]))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var wire logicsim.Wire
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wire))
	assert.Equal(t, logicsim.Wire{From: e.Pins[1], To: e.Pins[0]}, wire)

	// self loop: unstable, not an error
	st := decodeState(t, do(t, h, "PUT", "/v1/simulation", `{"on":true}`))
	assert.False(t, st.Stable)
	assert.Equal(t, []logicsim.ElementID{e.ID}, st.Feedback)

	w = do(t, h, "DELETE", fmt.Sprintf("/v1/wires/%d", e.Pins[0]), "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st = decodeState(t, do(t, h, "GET", "/v1/circuit", ""))
	assert.True(t, st.Stable)
	assert.Len(t, st.Circuit.Wires, 6)
}

func TestErrors(t *testing.T) {
	s, p := newServer(t, logicsim.WithFeedbackCheck(true))
	h := s.Handler()
	notIn := fmt.Sprintf(`{"a":%d,"b":%d}`, p.In("a"), p.Out("s"))
	td := []struct {
		method, path, body string
		code               int
	}{
		{"POST", "/v1/elements", `{"kind":"flip-flop"}`, http.StatusBadRequest},
		{"POST", "/v1/elements", `{}`, http.StatusBadRequest},
		{"POST", "/v1/wires", `{"a":1,"b":999}`, http.StatusNotFound},
		{"POST", "/v1/wires", `{"a":1,"b":2}`, http.StatusBadRequest},
		{"POST", "/v1/wires", notIn, http.StatusConflict},
		{"DELETE", "/v1/wires/x", "", http.StatusBadRequest},
		{"DELETE", fmt.Sprintf("/v1/wires/%d", p.In("a")), "", http.StatusNotFound},
		{"PUT", fmt.Sprintf("/v1/switches/%d", p.Out("s")), `{"on":true}`, http.StatusBadRequest},
		{"PUT", fmt.Sprintf("/v1/switches/%d", p.In("a")), `{}`, http.StatusBadRequest},
		{"POST", "/v1/switches/0/toggle", "", http.StatusBadRequest},
		{"POST", "/v1/circuit", `{"elements":[{"id":1,"kind":"and","pins":[1]}]}`, http.StatusBadRequest},
	}
	for _, d := range td {
		w := do(t, h, d.method, d.path, d.body)
		assert.Equal(t, d.code, w.Code, "%s %s %s: %s", d.method, d.path, d.body, w.Body.String())
		var er ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
		assert.Equal(t, d.code, er.Code)
		assert.NotEmpty(t, er.Error)
	}
	st := decodeState(t, do(t, h, "GET", "/v1/circuit", ""))
	assert.Len(t, st.Circuit.Elements, 6)
	assert.Len(t, st.Circuit.Wires, 6)
}

func TestReplaceCircuit(t *testing.T) {
	s, _ := newServer(t)
	c, _, err := logiclib.Build("full-adder")
	require.NoError(t, err)
	b, err := json.Marshal(c)
	require.NoError(t, err)

	st := decodeState(t, do(t, s.Handler(), "POST", "/v1/circuit", string(b)))
	assert.Len(t, st.Circuit.Elements, c.Len())
}

func TestStream(t *testing.T) {
	s, p := newServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() State {
		t.Helper()
		var st State
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		require.NoError(t, conn.ReadJSON(&st))
		return st
	}

	st := read()
	assert.False(t, st.Simulating)
	assert.Len(t, st.Circuit.Elements, 6)

	resp, err := http.Post(fmt.Sprintf("%s/v1/switches/%d/toggle", ts.URL, p.In("a")), "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st = read()
	for _, pr := range st.Circuit.Pins {
		if pr.ID == p.In("a") {
			assert.True(t, pr.State)
		}
	}

	c, _, err := logiclib.Build("mux")
	require.NoError(t, err)
	s.Replace(c)
	st = read()
	assert.Len(t, st.Circuit.Elements, c.Len())
}
