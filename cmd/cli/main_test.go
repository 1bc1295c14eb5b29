package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/merkato/fincore/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestBalanceCmdRendersResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/capital/balance" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance_usd":"400"}`))
	}))
	defer server.Close()

	origURL, origTimeout := baseURL, timeout
	baseURL, timeout = server.URL, 5*time.Second
	defer func() { baseURL, timeout = origURL, origTimeout }()

	cmd := balanceCmd()

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, `"balance_usd": "400"`) {
		t.Fatalf("expected balance in output, got %q", out)
	}
}

func TestGetJSONErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"period closed"}`))
	}))
	defer server.Close()

	origURL, origTimeout := baseURL, timeout
	baseURL, timeout = server.URL, 5*time.Second
	defer func() { baseURL, timeout = origURL, origTimeout }()

	err := getJSON("/api/v1/revenue/summaries/2024-04")
	if err == nil || !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestMintCredentialCmd(t *testing.T) {
	orig := os.Getenv("INTERNAL_CREDENTIAL_SECRET")
	defer os.Setenv("INTERNAL_CREDENTIAL_SECRET", orig)
	os.Setenv("INTERNAL_CREDENTIAL_SECRET", "cli-secret")

	cmd := mintCredentialCmd()
	cmd.SetArgs([]string{"batch-import"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	token := strings.TrimSpace(out)
	if token == "" {
		t.Fatal("expected a minted token")
	}

	manager := auth.NewCredentialManager("cli-secret", time.Hour)
	if err := manager.VerifyInternalCredential(token); err != nil {
		t.Fatalf("expected minted token to verify, got %v", err)
	}
}

func TestMintCredentialCmdMissingSecret(t *testing.T) {
	orig := os.Getenv("INTERNAL_CREDENTIAL_SECRET")
	defer os.Setenv("INTERNAL_CREDENTIAL_SECRET", orig)
	os.Unsetenv("INTERNAL_CREDENTIAL_SECRET")

	cmd := mintCredentialCmd()
	cmd.SetArgs([]string{"batch-import"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when secret is missing")
	}
}
