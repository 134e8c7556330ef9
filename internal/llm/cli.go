package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultCLITimeout = 120 * time.Second

// PromptMode selects how a CLI receives the prompt.
type PromptMode string

const (
	// PromptStdin pipes the prompt on standard input (claude --print).
	PromptStdin PromptMode = "stdin"

	// PromptArg appends the prompt as the final argument (gemini "...").
	PromptArg PromptMode = "arg"
)

// CLIConfig configures one headless AI CLI provider.
type CLIConfig struct {
	Name       string
	Command    string
	Args       []string
	PromptMode PromptMode
	Timeout    time.Duration
}

// CLIProvider invokes a headless AI CLI as a subprocess. One process is
// spawned per call; on timeout the process is killed, never left running.
type CLIProvider struct {
	cfg CLIConfig
}

// NewCLIProvider creates a subprocess-backed provider.
func NewCLIProvider(cfg CLIConfig) *CLIProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCLITimeout
	}
	if cfg.PromptMode == "" {
		cfg.PromptMode = PromptStdin
	}
	return &CLIProvider{cfg: cfg}
}

// NewClaudeCLI returns the provider for the headless claude CLI.
func NewClaudeCLI(timeout time.Duration) *CLIProvider {
	return NewCLIProvider(CLIConfig{
		Name:       "claude-cli",
		Command:    "claude",
		Args:       []string{"--print"},
		PromptMode: PromptStdin,
		Timeout:    timeout,
	})
}

// NewGeminiCLI returns the provider for the gemini CLI.
func NewGeminiCLI(timeout time.Duration) *CLIProvider {
	return NewCLIProvider(CLIConfig{
		Name:       "gemini-cli",
		Command:    "gemini",
		PromptMode: PromptArg,
		Timeout:    timeout,
	})
}

func (p *CLIProvider) Name() string { return p.cfg.Name }

func (p *CLIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := p.cfg.Args
	if p.cfg.PromptMode == PromptArg {
		args = append(append([]string{}, args...), req.Prompt)
	}

	cmd := exec.CommandContext(ctx, p.cfg.Command, args...)
	if p.cfg.PromptMode == PromptStdin {
		cmd.Stdin = strings.NewReader(req.Prompt)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// If the process ignores the kill signal's pipe teardown, force Wait to
	// give up rather than hang on inherited descriptors.
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		return nil, p.classify(ctx, err, stderr.String(), timeout)
	}

	text := strings.TrimSpace(stdout.String())
	return &Response{Text: text, Provider: p.cfg.Name, Elapsed: elapsed}, nil
}

func (p *CLIProvider) classify(ctx context.Context, err error, stderr string, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ProviderError{
			Type:    ErrorTimeout,
			Message: fmt.Sprintf("%s timed out after %s", p.cfg.Command, timeout),
			Err:     err,
		}
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return &ProviderError{
			Type:    ErrorProcess,
			Message: fmt.Sprintf("%s not found on PATH", p.cfg.Command),
			Err:     err,
		}
	}

	lower := strings.ToLower(stderr)
	if strings.Contains(lower, "rate limit") || strings.Contains(lower, "429") ||
		strings.Contains(lower, "quota") || strings.Contains(lower, "overloaded") {
		return &ProviderError{
			Type:    ErrorRateLimit,
			Message: fmt.Sprintf("%s reported throttling", p.cfg.Command),
			Err:     fmt.Errorf("%s: %s", err, firstLine(stderr)),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProviderError{
			Type:    ErrorProcess,
			Message: fmt.Sprintf("%s exited with status %d", p.cfg.Command, exitErr.ExitCode()),
			Err:     fmt.Errorf("%s", firstLine(stderr)),
		}
	}

	return &ProviderError{
		Type:    ErrorProcess,
		Message: p.cfg.Command + " failed",
		Err:     err,
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
