// Command testhelper drives the SDK from other language SDKs' test suites.
// It reads JSON on stdin and writes JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	truthlinked "github.com/truthlinked/sdk-go"
	"github.com/truthlinked/sdk-go/internal/crypto"
	"github.com/truthlinked/sdk-go/internal/secret"
)

const usage = "usage: testhelper <health|usage|sign|verify|redact>"

// sdkClient is the subset of *truthlinked.Client used by the helper.
type sdkClient interface {
	Health(ctx context.Context) (*truthlinked.HealthResponse, error)
	Usage(ctx context.Context) (*truthlinked.UsageResponse, error)
	Close() error
}

// Config holds the helper's I/O and environment.
type Config struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Getenv    func(string) string
	NewClient func(licenseKey, baseURL string) (sdkClient, error)
}

// DefaultConfig returns a Config bound to the process.
func DefaultConfig() *Config {
	return &Config{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		NewClient: newSDKClient,
	}
}

func newSDKClient(licenseKey, baseURL string) (sdkClient, error) {
	var opts []truthlinked.Option
	if baseURL != "" {
		opts = append(opts, truthlinked.WithBaseURL(baseURL))
	}
	client, err := truthlinked.New(licenseKey, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	licenseKey := cfg.Getenv("TRUTHLINKED_LICENSE_KEY")

	switch args[1] {
	case "sign":
		return runSign(licenseKey, cfg)
	case "verify":
		return runVerify(licenseKey, cfg)
	case "redact":
		return runRedact(licenseKey, cfg)
	case "health", "usage":
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}

	client, err := cfg.NewClient(licenseKey, cfg.Getenv("TRUTHLINKED_URL"))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if args[1] == "health" {
		return runHealth(ctx, client, cfg)
	}
	return runUsage(ctx, client, cfg)
}

func runHealth(ctx context.Context, client sdkClient, cfg *Config) error {
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return writeJSON(cfg.Stdout, health)
}

func runUsage(ctx context.Context, client sdkClient, cfg *Config) error {
	u, err := client.Usage(ctx)
	if err != nil {
		return fmt.Errorf("usage: %w", err)
	}
	return writeJSON(cfg.Stdout, u)
}

// SignInput is the stdin document for the sign and verify commands.
// Signature is only read by verify.
type SignInput struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Timestamp uint64 `json:"timestamp"`
	Body      string `json:"body"`
	Signature string `json:"signature,omitempty"`
}

// SignOutput is the stdout document for the sign command.
type SignOutput struct {
	Signature string `json:"signature"`
}

// VerifyOutput is the stdout document for the verify command.
type VerifyOutput struct {
	Valid bool `json:"valid"`
}

func runSign(licenseKey string, cfg *Config) error {
	in, signer, err := readSignInput(licenseKey, cfg)
	if err != nil {
		return err
	}
	defer signer.Destroy()

	return writeJSON(cfg.Stdout, SignOutput{
		Signature: signer.Sign(in.Method, in.Path, in.Timestamp, in.body()),
	})
}

// runVerify checks a signature produced by another SDK.
func runVerify(licenseKey string, cfg *Config) error {
	in, signer, err := readSignInput(licenseKey, cfg)
	if err != nil {
		return err
	}
	defer signer.Destroy()

	return writeJSON(cfg.Stdout, VerifyOutput{
		Valid: signer.Verify(in.Method, in.Path, in.Timestamp, in.body(), in.Signature),
	})
}

func readSignInput(licenseKey string, cfg *Config) (*SignInput, *crypto.Signer, error) {
	if licenseKey == "" {
		return nil, nil, truthlinked.ErrMissingLicenseKey
	}

	data, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return nil, nil, fmt.Errorf("read stdin: %w", err)
	}
	var in SignInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, nil, fmt.Errorf("parse input: %w", err)
	}

	key := secret.New(licenseKey)
	defer key.Destroy()
	var signer *crypto.Signer
	key.Use(func(raw []byte) { signer = crypto.NewSigner(raw) })
	return &in, signer, nil
}

func (in *SignInput) body() []byte {
	if in.Body == "" {
		return nil
	}
	return []byte(in.Body)
}

func runRedact(licenseKey string, cfg *Config) error {
	return writeJSON(cfg.Stdout, map[string]string{"redacted": secret.Redact(licenseKey)})
}

func writeJSON(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
