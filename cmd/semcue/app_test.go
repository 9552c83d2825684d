package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/semcue/api"
	"github.com/c360studio/semcue/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.NATS.Enabled = true
	cfg.NATS.Embedded = true
	return cfg
}

func TestAppStartStop(t *testing.T) {
	app, err := NewApp(testConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	if err := app.Start(t.Context()); err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Shutdown(5 * time.Second)

	if app.Addr() == "" {
		t.Fatal("HTTP listener not started")
	}
	if app.embeddedServer == nil {
		t.Fatal("Embedded NATS server not started")
	}

	// HTTP
	resp, err := http.Get("http://" + app.Addr() + "/api/languages")
	if err != nil {
		t.Fatalf("GET /api/languages: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var langs []api.LanguageInfo
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		t.Fatalf("decode languages: %v", err)
	}
	if len(langs) != 2 {
		t.Errorf("expected 2 languages, got %d", len(langs))
	}

	// NATS
	nc, err := nats.Connect(app.NATSURL())
	if err != nil {
		t.Fatalf("connect to NATS: %v", err)
	}
	defer nc.Close()

	var msg *nats.Msg
	deadline := time.Now().Add(5 * time.Second)
	for {
		msg, err = nc.Request("semcue.phrases", []byte(`{"language":"he","view":"multiple"}`), 200*time.Millisecond)
		if err == nil || time.Now().After(deadline) {
			break
		}
	}
	if err != nil {
		t.Fatalf("NATS request: %v", err)
	}
	var phrases api.PhraseResponse
	if err := json.Unmarshal(msg.Data, &phrases); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if len(phrases.Words) != 84 {
		t.Errorf("expected 84 multiple words, got %d", len(phrases.Words))
	}

	// Metrics reflect the lookup made over NATS.
	mresp, err := http.Get("http://" + app.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer mresp.Body.Close()
	body, _ := io.ReadAll(mresp.Body)
	if !strings.Contains(string(body), `semcue_lookups_total{language="he",result="hit"}`) {
		t.Error("expected lookup counter in /metrics output")
	}
}

func TestAppRequiresAFrontEnd(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HTTP.Enabled = false
	cfg.NATS.Enabled = false

	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	if err := app.Start(t.Context()); err == nil {
		t.Error("expected error when nothing is enabled")
	}
}

func TestNewAppOverlaysTables(t *testing.T) {
	dir := t.TempDir()
	table := `
language: he
name: Hebrew (short)
single_words: ["לכן"]
multiple_words: ["כמו כן"]
`
	if err := os.WriteFile(filepath.Join(dir, "he.yaml"), []byte(table), 0644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	cfg := testConfig()
	cfg.Tables.Dir = dir
	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	set, ok := app.registry.Lookup("he")
	if !ok {
		t.Fatal("he not registered")
	}
	if set.Name() != "Hebrew (short)" {
		t.Errorf("expected overriding table, got %q", set.Name())
	}
	if len(set.AllWords()) != 2 {
		t.Errorf("expected 2 words, got %d", len(set.AllWords()))
	}

	cfg.Tables.Dir = filepath.Join(dir, "missing")
	if _, err := NewApp(cfg, nil); err == nil {
		t.Error("expected error for missing tables directory")
	}
}
