package host

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/internal/commands"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
	"github.com/msto63/dexcomx/internal/store"
	"github.com/msto63/dexcomx/pkg/core/config"
	"github.com/msto63/dexcomx/pkg/core/health"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testToken = "owner-secret"

func newTestService(t *testing.T, maxSize int) (*Service, *store.MemoryStore) {
	t.Helper()

	ns, err := commands.Namespace()
	if err != nil {
		t.Fatal(err)
	}
	records := store.NewMemoryStore()
	reg := models.Default()
	exec, err := dexscript.New(dexscript.Options{
		Namespace: ns,
		Models:    reg,
		Runtime:   &commands.Runtime{Store: records, Models: reg, Logger: mdwlog.Discard()},
		Logger:    mdwlog.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}

	settings := config.NewSettings(config.ScriptConfig{RunTimeout: config.Duration{Duration: 5 * time.Second}})
	return NewService(exec, settings, maxSize, mdwlog.Discard()), records
}

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	svc, records := newTestService(t, 0)
	registry := health.NewRegistry("dexcomx", "test")
	registry.Register(health.PingCheck("store", records, time.Second))

	srv := New(Config{OwnerToken: testToken}, svc, registry, mdwlog.Discard())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, records
}

func TestServiceRun(t *testing.T) {
	svc, records := newTestService(t, 0)

	result := svc.Run(context.Background(), RunRequest{Code: "```\nRegime > create > Monarchy\nRegime > ls\n```"})
	if !result.OK || result.Reaction != SuccessReaction {
		t.Fatalf("result = %+v", result)
	}
	if result.Output != "Created Regime 'Monarchy'.\nRegime (1): Monarchy" {
		t.Errorf("Output = %q", result.Output)
	}
	if n, _ := records.Count(context.Background(), "Regime"); n != 1 {
		t.Errorf("Regime count = %d", n)
	}
}

func TestServiceRunReportsErrors(t *testing.T) {
	svc, _ := newTestService(t, 0)

	result := svc.Run(context.Background(), RunRequest{Code: "Regime > create > A\nnope"})
	if result.OK {
		t.Fatal("run with an unknown command should not be OK")
	}
	if result.Message != "ERROR: Line 2: 'nope' is not a valid command." {
		t.Errorf("Message = %q", result.Message)
	}
	if result.Code != "SCRIPT_UNKNOWN_COMMAND" || result.Executed != 1 {
		t.Errorf("result = %+v", result)
	}

	result = svc.Run(context.Background(), RunRequest{Code: "view > Ball > Atlantis"})
	if result.OK || result.Message != "ERROR: Line 1: Ball 'Atlantis' does not exist" {
		t.Errorf("fatal result = %+v", result)
	}
}

func TestServiceRunDebugAndLimits(t *testing.T) {
	svc, _ := newTestService(t, 10)

	result := svc.Run(context.Background(), RunRequest{Code: strings.Repeat("x", 11)})
	if result.OK || result.Code != "INVALID_INPUT" {
		t.Errorf("oversized result = %+v", result)
	}

	if _, err := svc.Setting(SettingRequest{Name: "DEBUG"}); err != nil {
		t.Fatal(err)
	}
	result = svc.Run(context.Background(), RunRequest{Code: "nope"})
	if !strings.Contains(result.Message, "Traceback:") {
		t.Errorf("debug message should carry a trace:\n%s", result.Message)
	}
}

func TestServiceSetting(t *testing.T) {
	svc, _ := newTestService(t, 0)

	res, err := svc.Setting(SettingRequest{Name: "Debug"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != "`debug` has been set to `true`" {
		t.Errorf("Message = %q", res.Message)
	}

	_, err = svc.Setting(SettingRequest{Name: "colour"})
	if err == nil || err.Error() != "`colour` is not a valid setting." {
		t.Errorf("error = %v", err)
	}
}

func TestAbout(t *testing.T) {
	svc, _ := newTestService(t, 0)
	about := svc.About()

	if about.Title != "DexComX" || about.Color != "#03BAFC" || about.Footer != "DexComX 1.0" {
		t.Errorf("about = %+v", about)
	}
	if !strings.Contains(about.Description, GuideURL) {
		t.Error("description should link the guide")
	}
	if !strings.HasPrefix(about.Markdown(), "# DexComX\n") {
		t.Errorf("Markdown() = %q", about.Markdown())
	}
}

func TestHTTPRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	var report health.Report
	json.NewDecoder(resp.Body).Decode(&report)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || report.Status != health.StatusHealthy {
		t.Errorf("health = %d %+v", resp.StatusCode, report)
	}

	post := func(path, token, body string) *http.Response {
		req, _ := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	resp = post("/api/v1/script/run", "", `{"code":"Ball > count"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("run without token = %d", resp.StatusCode)
	}

	resp = post("/api/v1/script/run", testToken, `{"code":"Ball > count"}`)
	var result RunResult
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !result.OK || result.Output != "0 Ball records." {
		t.Errorf("run = %d %+v", resp.StatusCode, result)
	}

	resp = post("/api/v1/script/run", testToken, `{"code":"view > Ball > Nowhere"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("fatal run status = %d", resp.StatusCode)
	}

	resp = post("/api/v1/settings", testToken, `{"name":"nope"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown setting status = %d", resp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/api/v1/missing")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d", resp.StatusCode)
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/script/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, msg WSMessage) (string, json.RawMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	return resp.Type, resp.Payload
}

func TestWebSocket(t *testing.T) {
	ts, records := newTestServer(t)
	conn := dial(t, ts)

	if typ, _ := exchange(t, conn, WSMessage{Type: "ping", Token: testToken}); typ != "pong" {
		t.Errorf("ping -> %q", typ)
	}

	typ, payload := exchange(t, conn, WSMessage{Type: "ping", Token: "wrong"})
	if typ != "error" || !bytes.Contains(payload, []byte("FORBIDDEN")) {
		t.Errorf("unauthorized ping -> %s %s", typ, payload)
	}

	run, _ := json.Marshal(RunRequest{
		Code:        "create > Ball > Germany\nFile > save > Ball > Germany > wild_card",
		Attachments: []dexscript.Attachment{{Name: "germany.png", Size: 4, Data: []byte("png!")}},
	})
	typ, payload = exchange(t, conn, WSMessage{Type: "run", Token: testToken, Payload: run})
	var result RunResult
	json.Unmarshal(payload, &result)
	if typ != "done" || result.Reaction != SuccessReaction {
		t.Errorf("run -> %s %s", typ, payload)
	}
	rec, err := records.Get(context.Background(), "Ball", "Germany")
	if err != nil || rec.Data["wild_card"] != "germany.png" {
		t.Errorf("record = %v, %v", rec, err)
	}

	bad, _ := json.Marshal(RunRequest{Code: "Ball > explode"})
	typ, payload = exchange(t, conn, WSMessage{Type: "run", Token: testToken, Payload: bad})
	json.Unmarshal(payload, &result)
	if typ != "error" || result.Message != "ERROR: Line 1: 'explode' is not a valid method for 'Ball'." {
		t.Errorf("bad run -> %s %s", typ, payload)
	}

	setting, _ := json.Marshal(SettingRequest{Name: "debug", Value: "true"})
	typ, payload = exchange(t, conn, WSMessage{Type: "setting", Token: testToken, Payload: setting})
	if typ != "setting" || !bytes.Contains(payload, []byte("has been set to `true`")) {
		t.Errorf("setting -> %s %s", typ, payload)
	}

	if typ, _ := exchange(t, conn, WSMessage{Type: "about", Token: testToken}); typ != "about" {
		t.Errorf("about -> %q", typ)
	}
	if typ, _ := exchange(t, conn, WSMessage{Type: "dance", Token: testToken}); typ != "error" {
		t.Errorf("unknown type -> %q", typ)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
