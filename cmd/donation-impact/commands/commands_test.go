package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/internal/server"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/input"
	"github.com/iwvelando/donation-impact/pkg/testutil"
	"go.uber.org/zap"
)

// runCLI executes the command tree with a config path that does not exist, so
// the built-in defaults apply.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	root := newRootCmd("1.0.0-test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", missing, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestEstimateCommandPretty(t *testing.T) {
	out, err := runCLI(t, "estimate")
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}
	if !strings.Contains(out, "--- For a single donation of $100.00 ---") {
		t.Errorf("expected default donation header, got:\n%s", out)
	}
	if !strings.Contains(out, "50 insecticide treated bed nets") {
		t.Errorf("expected nets sentence, got:\n%s", out)
	}
}

func TestEstimateCommandJSON(t *testing.T) {
	out, err := runCLI(t, "estimate", "--currency", "eur", "--output-format", "json", "10000", "1")
	if err != nil {
		t.Fatalf("estimate error = %v", err)
	}

	var results []calculator.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	large := testutil.FindResult(results, currency.EUR, "10000")
	if large == nil {
		t.Fatal("expected a result for 10000 EUR")
	}
	if large.Nets != "5900" || large.Headline != calculator.HeadlineLives {
		t.Errorf("unexpected 10000 EUR result: nets %s, headline %s", large.Nets, large.Headline)
	}
	small := testutil.FindResult(results, currency.EUR, "1")
	if small == nil {
		t.Fatal("expected a result for 1 EUR")
	}
	if small.Headline != calculator.HeadlineProbability {
		t.Errorf("expected probability headline for 1 EUR, got %s", small.Headline)
	}
}

func TestEstimateCommandRejectsInput(t *testing.T) {
	_, err := runCLI(t, "estimate", "12.345")
	if !errors.Is(err, input.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = runCLI(t, "estimate", "--currency", "JPY", "5")
	if !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}

	if _, err = runCLI(t, "estimate", "--output-format", "xml"); err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}

func TestEstimateCommandUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`estimator:
  unitCost: 5
output:
  format: csv
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	root := newRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "--log-level", "error", "estimate", "100"})
	if err := root.Execute(); err != nil {
		t.Fatalf("estimate error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected CSV header and one row, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "100,USD,100.00,20,") {
		t.Errorf("expected 20 nets at unit cost 5, got %q", lines[1])
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != "1.0.0-test" {
		t.Errorf("expected version output, got %q", out)
	}
}

func TestInitConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCLI(t, "init-config", path)
	if err != nil {
		t.Fatalf("init-config error = %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected output to name the file, got %q", out)
	}

	root := newRootCmd("test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", path, "--log-level", "error", "estimate", "--output-format", "csv"})
	if err := root.Execute(); err != nil {
		t.Fatalf("estimate with written config error = %v", err)
	}
	if !strings.Contains(buf.String(), "100,USD,100.00,50,90,") {
		t.Errorf("expected default estimate from written config, got:\n%s", buf.String())
	}
}

func TestApplyServeOverrides(t *testing.T) {
	serverConf, err := server.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if err := applyServeOverrides(serverConf, "", ""); err != nil {
		t.Fatalf("applyServeOverrides() with no flags error = %v", err)
	}
	if serverConf.Address != ":8080" || serverConf.RequestSizeBytes() != 16*1024 {
		t.Errorf("expected defaults to survive, got %s / %d", serverConf.Address, serverConf.RequestSizeBytes())
	}

	if err := applyServeOverrides(serverConf, "127.0.0.1:9000", "64K"); err != nil {
		t.Fatalf("applyServeOverrides() error = %v", err)
	}
	if serverConf.Address != "127.0.0.1:9000" {
		t.Errorf("expected address override, got %s", serverConf.Address)
	}
	if serverConf.RequestSizeBytes() != 64*1024 {
		t.Errorf("expected 64K request limit, got %d", serverConf.RequestSizeBytes())
	}

	for _, bad := range []string{"lots", "0", "1TB"} {
		if err := applyServeOverrides(serverConf, "", bad); err == nil {
			t.Errorf("expected error for --max-request-size %q", bad)
		}
	}
	if serverConf.RequestSizeBytes() != 64*1024 {
		t.Errorf("expected rejected overrides to leave the limit, got %d", serverConf.RequestSizeBytes())
	}
}

func TestRunServerStopsOnCancel(t *testing.T) {
	calc = calculator.Default()
	serverConf, err := server.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	serverConf.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runServer(ctx, zap.NewNop(), serverConf); err != nil {
		t.Fatalf("runServer() error = %v", err)
	}
}
