package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "pkgsrc/internal/errors"
)

// setupProject creates a project directory and a fake registry, and points
// the CLI at both.
func setupProject(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lodash":
			_, _ = w.Write([]byte(`{"name":"lodash","repository":{"type":"git","url":"git+https://github.com/lodash/lodash.git"}}`))
		case "/express":
			_, _ = w.Write([]byte(`{"name":"express","repository":"git+https://github.com/expressjs/express.git"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"dependencies":{"lodash":"^4.17.0"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PKGSRC_REGISTRY_URL", srv.URL)
	t.Setenv("PKGSRC_BROWSER_ENABLED", "false")
	t.Setenv("PKGSRC_CONFIG_PATH", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "resolve", "lodash/map", "--project", dir, "--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	var res struct {
		Name      string `json:"name"`
		Candidate string `json:"candidate"`
		URL       string `json:"url"`
		Source    string `json:"source"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.URL != "https://github.com/lodash/lodash" || res.Candidate != "lodash" || res.Source != "registry" {
		t.Errorf("resolve = %+v", res)
	}
}

func TestResolveCommand_Stdlib(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "resolve", "path", "--project", dir, "--format", "yaml", "--quiet")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "url: https://nodejs.org/api/path.html") {
		t.Errorf("output:\n%s", out)
	}
}

func TestResolveCommand_NotFound(t *testing.T) {
	dir := setupProject(t)

	_, err := execute(t, "resolve", "no/such/thing", "--project", dir, "--format", "human", "--quiet")
	if !pkgerrors.IsCode(err, pkgerrors.NoRepositoryFound) {
		t.Errorf("err = %v, want NoRepositoryFound", err)
	}
}

func TestOpenCommand_RecordsHistory(t *testing.T) {
	dir := setupProject(t)
	src := filepath.Join(dir, "index.js")
	if err := os.WriteFile(src, []byte("const map = require('lodash/map');\nconst app = require('express')();\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "open", "--project", dir, "--file", src, "--line", "2", "--selection", "", "--no-browser", "--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("open error = %v", err)
	}
	if !strings.Contains(out, `"url": "https://github.com/expressjs/express"`) {
		t.Errorf("open output:\n%s", out)
	}
	if !strings.Contains(out, `"opened": false`) {
		t.Errorf("browser should not be reported as opened:\n%s", out)
	}

	out, err = execute(t, "history", "--project", dir, "--limit", "5", "--clear=false", "--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var hist HistoryResponse
	if err := json.Unmarshal([]byte(out), &hist); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, out)
	}
	if len(hist.Entries) != 1 || hist.Entries[0].Name != "express" {
		t.Errorf("history = %+v", hist.Entries)
	}

	out, err = execute(t, "history", "--project", dir, "--clear", "--format", "human", "--quiet")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 history entries") {
		t.Errorf("clear output: %q", out)
	}
}

func TestOpenCommand_NoSelection(t *testing.T) {
	dir := setupProject(t)

	_, err := execute(t, "open", "--project", dir, "--file", "", "--line", "0", "--selection", "let x = 1", "--no-browser", "--format", "human", "--quiet")
	if !pkgerrors.IsCode(err, pkgerrors.EmptySelection) {
		t.Errorf("err = %v, want EmptySelection", err)
	}
}

func TestExtractCommand_Manifest(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "extract", "--project", dir, "--file", filepath.Join(dir, "package.json"), "--line", "0", "--selection", "", "--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}

	var resp ExtractResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("extract output is not JSON: %v\n%s", err, out)
	}
	if resp.Kind != "manifest" || len(resp.Candidates) != 1 || resp.Candidates[0] != "lodash" {
		t.Errorf("extract = %+v", resp)
	}
}

func TestConfigShowCommand(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "config", "show", "--project", dir, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"usedDefaults": true`) || !strings.Contains(out, "PKGSRC_REGISTRY_URL") {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	dir := setupProject(t)
	t.Setenv("PKGSRC_EXTRACT_PARSER", "magic")

	_, err := execute(t, "resolve", "fs", "--project", dir, "--format", "human", "--quiet")
	if !pkgerrors.IsCode(err, pkgerrors.ConfigInvalid) {
		t.Errorf("err = %v, want ConfigInvalid", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--format", "human")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pkgsrc version") {
		t.Errorf("version output: %q", out)
	}
}
