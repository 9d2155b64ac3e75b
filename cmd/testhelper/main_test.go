package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	truthlinked "github.com/truthlinked/sdk-go"
)

const testLicenseKey = "tl_free_secret123456789"

type mockClient struct {
	healthFn func(ctx context.Context) (*truthlinked.HealthResponse, error)
	usageFn  func(ctx context.Context) (*truthlinked.UsageResponse, error)
	closed   bool
}

func (m *mockClient) Health(ctx context.Context) (*truthlinked.HealthResponse, error) {
	if m.healthFn != nil {
		return m.healthFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockClient) Usage(ctx context.Context) (*truthlinked.UsageResponse, error) {
	if m.usageFn != nil {
		return m.usageFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockClient) Close() error {
	m.closed = true
	return nil
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Stdin != os.Stdin {
		t.Error("DefaultConfig().Stdin should be os.Stdin")
	}
	if cfg.Stdout != os.Stdout {
		t.Error("DefaultConfig().Stdout should be os.Stdout")
	}
	if cfg.Stderr != os.Stderr {
		t.Error("DefaultConfig().Stderr should be os.Stderr")
	}
	if cfg.Getenv == nil || cfg.NewClient == nil {
		t.Error("DefaultConfig() should set Getenv and NewClient")
	}
}

func TestRun_Usage(t *testing.T) {
	cfg := &Config{Getenv: env(nil)}

	err := run([]string{"testhelper"}, cfg)
	if err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Errorf("run() error = %v, want usage", err)
	}

	err = run([]string{"testhelper", "bogus"}, cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("run() error = %v, want unknown command", err)
	}
}

func TestRunSign(t *testing.T) {
	var out bytes.Buffer
	cfg := &Config{
		Stdin:  strings.NewReader(`{"method":"GET","path":"/health","timestamp":1234567890}`),
		Stdout: &out,
		Getenv: env(map[string]string{"TRUTHLINKED_LICENSE_KEY": "test_key"}),
	}

	if err := run([]string{"testhelper", "sign"}, cfg); err != nil {
		t.Fatalf("run(sign) error = %v", err)
	}

	var got SignOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if want := "4OrBjqiRzFCAmYoR4lIqz4W24xaoAGxEvOYZwcu7krY="; got.Signature != want {
		t.Errorf("signature = %s, want %s", got.Signature, want)
	}
}

func TestRunSign_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "missing key",
			cfg:     &Config{Stdin: strings.NewReader("{}"), Getenv: env(nil)},
			wantErr: "license key is required",
		},
		{
			name:    "read error",
			cfg:     &Config{Stdin: errorReader{}, Getenv: env(map[string]string{"TRUTHLINKED_LICENSE_KEY": "k"})},
			wantErr: "read stdin",
		},
		{
			name:    "invalid json",
			cfg:     &Config{Stdin: strings.NewReader("not json"), Getenv: env(map[string]string{"TRUTHLINKED_LICENSE_KEY": "k"})},
			wantErr: "parse input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Stdout = &bytes.Buffer{}
			err := run([]string{"testhelper", "sign"}, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run(sign) error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunVerify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid", `{"method":"GET","path":"/health","timestamp":1234567890,"signature":"4OrBjqiRzFCAmYoR4lIqz4W24xaoAGxEvOYZwcu7krY="}`, true},
		{"other timestamp", `{"method":"GET","path":"/health","timestamp":1234567891,"signature":"4OrBjqiRzFCAmYoR4lIqz4W24xaoAGxEvOYZwcu7krY="}`, false},
		{"malformed signature", `{"method":"GET","path":"/health","timestamp":1234567890,"signature":"abc"}`, false},
		{"missing signature", `{"method":"GET","path":"/health","timestamp":1234567890}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg := &Config{
				Stdin:  strings.NewReader(tt.input),
				Stdout: &out,
				Getenv: env(map[string]string{"TRUTHLINKED_LICENSE_KEY": "test_key"}),
			}
			if err := run([]string{"testhelper", "verify"}, cfg); err != nil {
				t.Fatalf("run(verify) error = %v", err)
			}

			var got VerifyOutput
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if got.Valid != tt.valid {
				t.Errorf("valid = %v, want %v", got.Valid, tt.valid)
			}
		})
	}
}

func TestRunVerify_MissingKey(t *testing.T) {
	cfg := &Config{Stdin: strings.NewReader("{}"), Stdout: &bytes.Buffer{}, Getenv: env(nil)}
	err := run([]string{"testhelper", "verify"}, cfg)
	if !errors.Is(err, truthlinked.ErrMissingLicenseKey) {
		t.Errorf("run(verify) error = %v, want ErrMissingLicenseKey", err)
	}
}

func TestRunRedact(t *testing.T) {
	var out bytes.Buffer
	cfg := &Config{
		Stdout: &out,
		Getenv: env(map[string]string{"TRUTHLINKED_LICENSE_KEY": testLicenseKey}),
	}

	if err := run([]string{"testhelper", "redact"}, cfg); err != nil {
		t.Fatalf("run(redact) error = %v", err)
	}
	if strings.Contains(out.String(), testLicenseKey) {
		t.Fatal("output contains the full license key")
	}
	if !strings.Contains(out.String(), `"tl_...789"`) {
		t.Errorf("output = %s, want redacted key", out.String())
	}
}

func TestRunHealth(t *testing.T) {
	client := &mockClient{
		healthFn: func(ctx context.Context) (*truthlinked.HealthResponse, error) {
			return &truthlinked.HealthResponse{Status: "ok", Version: "1.2.3"}, nil
		},
	}
	var gotKey, gotURL string
	var out bytes.Buffer
	cfg := &Config{
		Stdout: &out,
		Getenv: env(map[string]string{
			"TRUTHLINKED_LICENSE_KEY": testLicenseKey,
			"TRUTHLINKED_URL":         "https://api.example.com",
		}),
		NewClient: func(key, url string) (sdkClient, error) {
			gotKey, gotURL = key, url
			return client, nil
		},
	}

	if err := run([]string{"testhelper", "health"}, cfg); err != nil {
		t.Fatalf("run(health) error = %v", err)
	}
	if gotKey != testLicenseKey || gotURL != "https://api.example.com" {
		t.Errorf("NewClient(%q, %q)", gotKey, gotURL)
	}
	if !client.closed {
		t.Error("client should be closed")
	}
	if !strings.Contains(out.String(), `"status":"ok"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestRunUsage_Error(t *testing.T) {
	client := &mockClient{
		usageFn: func(ctx context.Context) (*truthlinked.UsageResponse, error) {
			return nil, truthlinked.ErrUnauthorized
		},
	}
	cfg := &Config{
		Stdout:    &bytes.Buffer{},
		Getenv:    env(nil),
		NewClient: func(string, string) (sdkClient, error) { return client, nil },
	}

	err := run([]string{"testhelper", "usage"}, cfg)
	if !errors.Is(err, truthlinked.ErrUnauthorized) {
		t.Errorf("run(usage) error = %v, want ErrUnauthorized", err)
	}
}

func TestRun_NewClientError(t *testing.T) {
	cfg := &Config{
		Stdout: &bytes.Buffer{},
		Getenv: env(nil),
		NewClient: func(key, url string) (sdkClient, error) {
			return newSDKClient(key, url)
		},
	}

	err := run([]string{"testhelper", "health"}, cfg)
	if !errors.Is(err, truthlinked.ErrMissingLicenseKey) {
		t.Errorf("run(health) error = %v, want ErrMissingLicenseKey", err)
	}
	if err == nil || !strings.Contains(err.Error(), "create client") {
		t.Errorf("run(health) error = %v, want create client prefix", err)
	}
}
