package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bazinga/internal/logging"
	"bazinga/internal/pattern"
)

func setupCLI(t *testing.T) {
	t.Helper()

	logger = zap.NewNop()
	homeFlag = t.TempDir()
	t.Cleanup(func() {
		logging.CloseAll()
		homeFlag = ""
		appHome = ""
		appCfg = nil
	})

	if err := initHome(); err != nil {
		t.Fatalf("initHome failed: %v", err)
	}
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}

func TestEngineConfigModes(t *testing.T) {
	setupCLI(t)

	cases := []struct {
		mode                       string
		quantum, symbolic, lambdaG bool
	}{
		{"basic", false, false, false},
		{"quantum", true, false, false},
		{"symbolic", true, true, false},
		{"lambda", false, false, true},
		{"unified", true, true, true},
		{"", true, true, true},
	}
	for _, tc := range cases {
		cfg, err := engineConfig(tc.mode)
		if err != nil {
			t.Fatalf("engineConfig(%q): %v", tc.mode, err)
		}
		if cfg.Quantum != tc.quantum || cfg.Symbolic != tc.symbolic || cfg.LambdaG != tc.lambdaG {
			t.Errorf("mode %q: got (%v, %v, %v), want (%v, %v, %v)", tc.mode,
				cfg.Quantum, cfg.Symbolic, cfg.LambdaG, tc.quantum, tc.symbolic, tc.lambdaG)
		}
		if cfg.Home != appHome {
			t.Errorf("mode %q: home = %q, want %q", tc.mode, cfg.Home, appHome)
		}
	}

	if _, err := engineConfig("psychic"); err == nil {
		t.Error("unknown mode should be rejected")
	}
}

func TestRunEncodePrintsValidCode(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runEncode(&cobra.Command{}, []string{"2", "1", "5", "3"}); err != nil {
			t.Errorf("runEncode failed: %v", err)
		}
	})

	code := strings.TrimSpace(output)
	if !pattern.IsValidCode(code) {
		t.Fatalf("runEncode printed %q, not a valid code", code)
	}
	if !strings.HasPrefix(code, "2.1.") {
		t.Errorf("code %q should start with the section coordinates", code)
	}
}

func TestRunEncodeRejectsNonInteger(t *testing.T) {
	setupCLI(t)

	if err := runEncode(&cobra.Command{}, []string{"2", "one"}); err == nil {
		t.Fatal("expected error for non-integer argument")
	}
}

func TestRunDecodeAndExplain(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runDecode(&cobra.Command{}, []string{"2.1.5.3"}); err != nil {
			t.Errorf("runDecode failed: %v", err)
		}
	})
	if !strings.Contains(output, "\"Section\": 2") {
		t.Errorf("decode output missing section field:\n%s", output)
	}

	output = captureOutput(t, func() {
		if err := runExplain(&cobra.Command{}, []string{"2.1.5.3"}); err != nil {
			t.Errorf("runExplain failed: %v", err)
		}
	})
	if strings.TrimSpace(output) == "" {
		t.Error("explain printed nothing")
	}
}

func TestRunFib(t *testing.T) {
	setupCLI(t)

	fibTerms = 6
	defer func() { fibTerms = 10 }()

	output := captureOutput(t, func() {
		if err := runFib(&cobra.Command{}, nil); err != nil {
			t.Errorf("runFib failed: %v", err)
		}
	})
	if !strings.Contains(output, ".") {
		t.Errorf("fib output %q does not look like a pattern chain", output)
	}
}

func TestRunPatterns(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runPatterns(&cobra.Command{}, nil); err != nil {
			t.Errorf("runPatterns list failed: %v", err)
		}
	})
	for _, name := range []string{"time-trust", "harmonic", "relationship", "mandelbrot"} {
		if !strings.Contains(output, name) {
			t.Errorf("pattern list missing %q:\n%s", name, output)
		}
	}

	output = captureOutput(t, func() {
		if err := runPatterns(&cobra.Command{}, []string{"harmonic"}); err != nil {
			t.Errorf("runPatterns get failed: %v", err)
		}
	})
	if !strings.Contains(output, "3.2.2.1.5.3.2") {
		t.Errorf("pattern get missing code:\n%s", output)
	}
	if !strings.Contains(output, "segments") {
		t.Errorf("pattern get missing segments:\n%s", output)
	}

	output = captureOutput(t, func() {
		if err := runPatterns(&cobra.Command{}, []string{"3.2.2.1.5.3.2"}); err != nil {
			t.Errorf("runPatterns reverse failed: %v", err)
		}
	})
	if !strings.Contains(output, "name: harmonic") {
		t.Errorf("pattern reverse lookup missing name:\n%s", output)
	}
}

func TestRunProcess(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runProcess(&cobra.Command{}, []string{"hello", "patterns"}); err != nil {
			t.Errorf("runProcess failed: %v", err)
		}
	})
	if !strings.Contains(output, "\"success\": true") {
		t.Errorf("process output missing success:\n%s", output)
	}
	if !strings.Contains(output, "\"mode\"") {
		t.Errorf("process output missing mode:\n%s", output)
	}
}

func TestStateSaveThenLoad(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runStateSave(&cobra.Command{}, []string{"probe.json"}); err != nil {
			t.Errorf("runStateSave failed: %v", err)
		}
	})
	if !strings.Contains(output, "State saved") {
		t.Errorf("save output unexpected:\n%s", output)
	}
	if _, err := os.Stat(filepath.Join(appHome, "states", "probe.json")); err != nil {
		t.Fatalf("state file missing: %v", err)
	}

	output = captureOutput(t, func() {
		if err := runStateLoad(&cobra.Command{}, nil); err != nil {
			t.Errorf("runStateLoad list failed: %v", err)
		}
	})
	if !strings.Contains(output, "probe.json") {
		t.Errorf("state list missing saved file:\n%s", output)
	}

	output = captureOutput(t, func() {
		if err := runStateLoad(&cobra.Command{}, []string{"probe.json"}); err != nil {
			t.Errorf("runStateLoad failed: %v", err)
		}
	})
	if !strings.Contains(output, "\"type\": \"load\"") {
		t.Errorf("load output unexpected:\n%s", output)
	}
}

func TestRunStateShow(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runStateShow(&cobra.Command{}, nil); err != nil {
			t.Errorf("runStateShow failed: %v", err)
		}
	})
	if !strings.Contains(output, "\"codename\": \"DARMIYAN\"") {
		t.Errorf("snapshot output unexpected:\n%s", output)
	}
}

func TestLatestSnapshotPrefersSavedState(t *testing.T) {
	setupCLI(t)

	if err := runStateSave(&cobra.Command{}, []string{"saved.json"}); err != nil {
		t.Fatalf("runStateSave failed: %v", err)
	}

	snap, _, err := latestSnapshot()
	if err != nil {
		t.Fatalf("latestSnapshot failed: %v", err)
	}
	if snap.Codename != "DARMIYAN" {
		t.Errorf("snapshot codename = %q", snap.Codename)
	}
}

func TestRunDocs(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runDocs(&cobra.Command{}, nil); err != nil {
			t.Errorf("runDocs failed: %v", err)
		}
	})
	if !strings.Contains(output, "Documentation tree") {
		t.Errorf("docs output unexpected:\n%s", output)
	}

	docsDir := filepath.Join(appHome, "reports", "docs")
	entries, err := os.ReadDir(docsDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("docs directory empty or missing: %v", err)
	}
}

func TestRunReportWritesFile(t *testing.T) {
	setupCLI(t)

	output := captureOutput(t, func() {
		if err := runReport(&cobra.Command{}, nil); err != nil {
			t.Errorf("runReport failed: %v", err)
		}
	})
	if !strings.Contains(output, "Report written:") {
		t.Fatalf("report output unexpected:\n%s", output)
	}

	line := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(output), "Report written:"))
	if _, err := os.Stat(line); err != nil {
		t.Errorf("reported path %q missing: %v", line, err)
	}
}

func TestGenerateDashboardWritesPage(t *testing.T) {
	setupCLI(t)

	dashboardGenerate = true
	defer func() { dashboardGenerate = false }()

	output := captureOutput(t, func() {
		if err := runDashboard(&cobra.Command{}, nil); err != nil {
			t.Errorf("runDashboard --generate failed: %v", err)
		}
	})
	if !strings.Contains(output, "Dashboard written:") {
		t.Fatalf("dashboard output unexpected:\n%s", output)
	}
}

func TestRunGenerateWritesModule(t *testing.T) {
	setupCLI(t)

	generateConcept = "resonance"
	generateOutput = filepath.Join(t.TempDir(), "resonance.go")
	defer func() {
		generateConcept = ""
		generateOutput = ""
	}()

	captureOutput(t, func() {
		if err := runGenerate(&cobra.Command{}, nil); err != nil {
			t.Errorf("runGenerate failed: %v", err)
		}
	})

	data, err := os.ReadFile(generateOutput)
	if err != nil {
		t.Fatalf("generated module missing: %v", err)
	}
	if !strings.Contains(string(data), "func Process(") {
		t.Errorf("generated module missing Process function")
	}
}

func TestRunAdviseFromFile(t *testing.T) {
	setupCLI(t)

	path := filepath.Join(t.TempDir(), "entry.txt")
	if err := os.WriteFile(path, []byte("the bridge between worlds holds the connection"), 0644); err != nil {
		t.Fatal(err)
	}

	output := captureOutput(t, func() {
		if err := runAdvise(&cobra.Command{}, []string{path}); err != nil {
			t.Errorf("runAdvise failed: %v", err)
		}
	})
	if !strings.Contains(output, "Directive:") {
		t.Errorf("advise output missing directive:\n%s", output)
	}

	if _, err := os.Stat(filepath.Join(appHome, "advisor_history.jsonl")); err != nil {
		t.Errorf("advisor history not recorded: %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	output := captureOutput(t, func() {
		versionCmd.Run(versionCmd, nil)
	})
	if !strings.Contains(output, "1.0.0-unified") || !strings.Contains(output, "DARMIYAN") {
		t.Errorf("version output unexpected: %s", output)
	}
}

func TestCommandWiring(t *testing.T) {
	want := []string{
		"awaken", "encode", "decode", "explain", "fib", "patterns", "process",
		"state", "monitor", "dashboard", "report", "docs", "collect",
		"artifacts", "index", "search", "ask", "whatsapp", "scan-apps",
		"clipboard", "generate", "advise", "version",
	}

	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}

	for _, sub := range []struct{ parent, child string }{
		{"state", "show"}, {"state", "save"}, {"state", "load"},
		{"artifacts", "list"}, {"artifacts", "analyze"},
		{"clipboard", "clear"}, {"clipboard", "trim"}, {"clipboard", "verify"},
	} {
		found, _, err := rootCmd.Find([]string{sub.parent, sub.child})
		if err != nil || found.Name() != sub.child {
			t.Errorf("subcommand %s %s not registered", sub.parent, sub.child)
		}
	}
}
