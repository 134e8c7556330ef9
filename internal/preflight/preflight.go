// Package preflight verifies the environment before a generation run:
// provider CLIs on PATH, export toolchain, readable config, and a writable
// workspace.
package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"bookforge/internal/config"
)

// probeTimeout bounds each external command probe.
const probeTimeout = 10 * time.Second

// Status of one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckResult is the outcome of a single preflight check.
type CheckResult struct {
	Name   string
	Status Status
	Detail string
}

// Checker runs the preflight suite for a project.
type Checker struct {
	dir string
	cfg *config.Config
}

func New(dir string, cfg *config.Config) *Checker {
	return &Checker{dir: dir, cfg: cfg}
}

// Run executes all checks and returns their results. Passed returns whether
// any of them failed hard.
func (c *Checker) Run(ctx context.Context) []CheckResult {
	var results []CheckResult
	results = append(results, c.checkWorkspace())
	results = append(results, c.checkProviders(ctx)...)
	results = append(results, c.checkExportTools(ctx)...)
	return results
}

// Passed reports whether results contain no hard failures.
func Passed(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return false
		}
	}
	return true
}

func (c *Checker) checkWorkspace() CheckResult {
	probe := filepath.Join(c.dir, ".preflight")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return CheckResult{Name: "workspace", Status: StatusFail,
			Detail: fmt.Sprintf("not writable: %v", err)}
	}
	os.Remove(probe)
	return CheckResult{Name: "workspace", Status: StatusOK, Detail: c.dir}
}

// checkProviders probes every CLI provider in the chain. A missing CLI is a
// warning, not a failure, because the chain falls back past it; only a chain
// with no reachable provider at all fails.
func (c *Checker) checkProviders(ctx context.Context) []CheckResult {
	var results []CheckResult
	reachable := 0
	for _, p := range c.cfg.Providers {
		switch p.Type {
		case "claude-cli", "gemini-cli", "cli":
			command := cliCommand(p)
			label := p.Name
			if label == "" {
				label = command
			}
			r := probeCommand(ctx, "provider "+label, command, "--version")
			if r.Status == StatusOK {
				reachable++
			} else {
				r.Status = StatusWarn
			}
			results = append(results, r)
		case "anthropic", "openai":
			// API providers are validated at request time; key presence is
			// the keys command's job.
			reachable++
			results = append(results, CheckResult{
				Name: "provider " + p.Name, Status: StatusOK, Detail: "API provider (checked at request time)",
			})
		case "static":
			reachable++
			results = append(results, CheckResult{
				Name: "provider " + p.Name, Status: StatusOK, Detail: "always available",
			})
		}
	}
	if reachable == 0 {
		results = append(results, CheckResult{
			Name: "provider chain", Status: StatusFail, Detail: "no reachable provider configured",
		})
	}
	return results
}

// cliCommand returns the binary a CLI provider actually invokes. The
// claude-cli and gemini-cli types hard-wire their commands; only the
// generic cli type reads it from config.
func cliCommand(p config.ProviderConfig) string {
	switch p.Type {
	case "claude-cli":
		return "claude"
	case "gemini-cli":
		return "gemini"
	}
	return p.Command
}

// checkExportTools probes pandoc and the PDF engine. Both are warnings only;
// markdown and HTML export work without them.
func (c *Checker) checkExportTools(ctx context.Context) []CheckResult {
	pandoc := c.cfg.Export.PandocPath
	if pandoc == "" {
		pandoc = "pandoc"
	}
	engine := c.cfg.Export.Engine
	if engine == "" {
		engine = "xelatex"
	}

	results := []CheckResult{
		probeCommand(ctx, "pandoc", pandoc, "--version"),
		probeCommand(ctx, "pdf engine", engine, "--version"),
	}
	for i := range results {
		if results[i].Status == StatusFail {
			results[i].Status = StatusWarn
			results[i].Detail += " (PDF export unavailable)"
		}
	}
	return results
}

// probeCommand checks name is on PATH and answers a short version query.
func probeCommand(ctx context.Context, label, command string, args ...string) CheckResult {
	path, err := exec.LookPath(command)
	if err != nil {
		return CheckResult{Name: label, Status: StatusFail,
			Detail: fmt.Sprintf("%s not found on PATH", command)}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := exec.CommandContext(ctx, path, args...).Run(); err != nil {
		return CheckResult{Name: label, Status: StatusFail,
			Detail: fmt.Sprintf("%s: probe failed: %v", command, err)}
	}
	return CheckResult{Name: label, Status: StatusOK, Detail: path}
}
