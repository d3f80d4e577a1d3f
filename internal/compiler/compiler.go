package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultBinary is the compiler executable looked up in PATH.
	DefaultBinary = "typst"
	// DefaultTimeout bounds slot wait plus the compiler run.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxConcurrent is the number of compiler processes allowed at once.
	DefaultMaxConcurrent = 4
	// DefaultWaitDelay bounds how long output pipes are drained after the process is killed.
	DefaultWaitDelay = 2 * time.Second

	defaultPath = "/usr/local/bin:/usr/bin:/bin"
)

// Config controls how the compiler process is started.
type Config struct {
	Binary        string
	Timeout       time.Duration
	MaxConcurrent int
	WaitDelay     time.Duration
	// Env holds extra KEY=VALUE entries added to the minimal process environment.
	Env []string
}

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.WaitDelay <= 0 {
		c.WaitDelay = DefaultWaitDelay
	}
	return c
}

// Compiler invokes the document compiler in a caller-owned working directory.
// It is safe for concurrent use; at most Config.MaxConcurrent processes run at once.
type Compiler struct {
	cfg    Config
	slots  *semaphore.Weighted
	logger *slog.Logger
}

// New creates a Compiler. A nil logger uses slog.Default().
func New(cfg Config, logger *slog.Logger) *Compiler {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		cfg:    cfg,
		slots:  semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger: logger.With("component", "compiler"),
	}
}

// Timeout returns the effective compile bound.
func (c *Compiler) Timeout() time.Duration {
	return c.cfg.Timeout
}

// Compile runs `<binary> compile <workDir>/<source> <workDir>/<output>` and returns the output file contents.
// The working directory is neither created nor removed here.
func (c *Compiler) Compile(ctx context.Context, workDir, source, output string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compile canceled: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	if err := c.slots.Acquire(runCtx, 1); err != nil {
		return nil, c.contextError(ctx, runCtx, "waiting for a compiler slot")
	}
	defer c.slots.Release(1)

	cmd := exec.CommandContext(runCtx, c.cfg.Binary, "compile",
		filepath.Join(workDir, source), filepath.Join(workDir, output))
	cmd.Dir = workDir
	cmd.Env = c.environment(workDir)
	cmd.WaitDelay = c.cfg.WaitDelay
	configureProcess(cmd)

	var diagnostics strings.Builder
	cmd.Stdout = &diagnostics
	cmd.Stderr = &diagnostics

	runErr := cmd.Run()
	elapsed := time.Since(start)

	// A deadline that passed while the process ran always wins, even over a zero exit.
	if runCtx.Err() != nil {
		return nil, c.contextError(ctx, runCtx, "running compiler")
	}

	if runErr != nil && !errors.Is(runErr, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			c.logger.Error("compiler failed",
				"source", source,
				"exit_code", exitErr.ExitCode(),
				"duration", elapsed,
				"diagnostics", diagnostics.String())
			return nil, &CompilationError{
				Message:     fmt.Sprintf("compiler exited with status %d", exitErr.ExitCode()),
				ExitCode:    exitErr.ExitCode(),
				Diagnostics: diagnostics.String(),
				Cause:       runErr,
			}
		}
		return nil, fmt.Errorf("failed to start %s: %w", c.cfg.Binary, runErr)
	}
	if runErr != nil {
		c.logger.Warn("compiler left output pipes open", "source", source, "duration", elapsed)
	}

	data, err := os.ReadFile(filepath.Join(workDir, output))
	if err != nil {
		return nil, &OutputError{File: output, Cause: err}
	}
	if len(data) == 0 {
		return nil, &OutputError{File: output, Cause: errors.New("output is empty")}
	}

	c.logger.Debug("compiled document", "source", source, "bytes", len(data), "duration", elapsed)
	return data, nil
}

// contextError distinguishes a canceled caller from an expired compile bound.
func (c *Compiler) contextError(parent, run context.Context, stage string) error {
	if err := parent.Err(); err != nil {
		return fmt.Errorf("compile canceled while %s: %w", stage, err)
	}
	c.logger.Warn("compiler timed out", "stage", stage, "timeout", c.cfg.Timeout)
	return &TimeoutError{Timeout: c.cfg.Timeout, Cause: run.Err()}
}

func (c *Compiler) environment(workDir string) []string {
	path, ok := os.LookupEnv("PATH")
	if !ok || path == "" {
		path = defaultPath
	}
	env := []string{
		"PATH=" + path,
		"HOME=" + workDir,
	}
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "TYPST_") || key == "LANG" || key == "LC_ALL" {
			env = append(env, kv)
		}
	}
	return append(env, c.cfg.Env...)
}
