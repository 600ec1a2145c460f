// Package bootstrap prepares a local development environment for the project:
// it checks for the Go toolchain, creates an isolated module cache, downloads the pinned
// dependency set and materializes .env from .env.example when it is missing.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// DefaultRuntime is the executable that must be on PATH.
	DefaultRuntime = "go"
	// EnvDir is the isolated dependency environment, relative to the project root.
	EnvDir = ".gotools"
	// ConfigFile is the local, untracked configuration file.
	ConfigFile = ".env"
	// ExampleConfigFile is the checked-in template for ConfigFile.
	ExampleConfigFile = ".env.example"
)

var (
	ErrRuntimeMissing = errors.New("required runtime not found on PATH")
	ErrExampleMissing = errors.New("example configuration file not found")
)

// Runner executes one installer step.
type Runner interface {
	Run(ctx context.Context, dir string, env []string, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Options configure a Bootstrapper. Zero values select the real environment.
type Options struct {
	Root        string
	Runtime     string
	SkipInstall bool
	LookPath    func(file string) (string, error)
	Runner      Runner
	Reporter    *Reporter
}

// Result describes what a run changed.
type Result struct {
	RuntimePath   string
	EnvDirCreated bool
	ConfigCopied  bool
}

// Bootstrapper runs the setup steps in order and stops at the first failure.
type Bootstrapper struct {
	root        string
	runtime     string
	skipInstall bool
	lookPath    func(string) (string, error)
	runner      Runner
	report      *Reporter
}

// New applies defaults to opts.
func New(opts Options) *Bootstrapper {
	b := &Bootstrapper{
		root:        opts.Root,
		runtime:     opts.Runtime,
		skipInstall: opts.SkipInstall,
		lookPath:    opts.LookPath,
		runner:      opts.Runner,
		report:      opts.Reporter,
	}
	if b.root == "" {
		b.root = "."
	}
	if b.runtime == "" {
		b.runtime = DefaultRuntime
	}
	if b.lookPath == nil {
		b.lookPath = exec.LookPath
	}
	if b.runner == nil {
		b.runner = ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	}
	if b.report == nil {
		b.report = NewReporter(io.Discard)
	}
	return b
}

// Run executes every step. No file is written before the runtime and the example
// configuration have been found.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	path, err := b.checkRuntime()
	if err != nil {
		return res, err
	}
	res.RuntimePath = path

	if err := b.preflight(); err != nil {
		return res, err
	}

	created, err := b.ensureEnvDir()
	if err != nil {
		return res, err
	}
	res.EnvDirCreated = created

	if err := b.install(ctx); err != nil {
		return res, err
	}

	copied, err := b.materializeConfig()
	if err != nil {
		return res, err
	}
	res.ConfigCopied = copied

	b.report.Success("setup complete, start the server with: make run")
	b.report.Info("to use %s outside make, run: export %s", EnvDir, strings.Join(b.ActivationEnv(), " "))
	return res, nil
}

func (b *Bootstrapper) checkRuntime() (string, error) {
	path, err := b.lookPath(b.runtime)
	if err != nil {
		b.report.Error("%s not found; install it from https://go.dev/dl/ and re-run this script", b.runtime)
		return "", fmt.Errorf("%w: %s", ErrRuntimeMissing, b.runtime)
	}
	b.report.Success("found %s at %s", b.runtime, path)
	return path, nil
}

// preflight fails early when .env would have to be created but no template exists.
func (b *Bootstrapper) preflight() error {
	if exists(b.path(ConfigFile)) {
		return nil
	}
	if !exists(b.path(ExampleConfigFile)) {
		b.report.Error("%s is missing, cannot create %s", ExampleConfigFile, ConfigFile)
		return fmt.Errorf("%w: %s", ErrExampleMissing, b.path(ExampleConfigFile))
	}
	return nil
}

func (b *Bootstrapper) ensureEnvDir() (bool, error) {
	dir := b.path(EnvDir)
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		b.report.Info("environment %s already exists", EnvDir)
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%s exists and is not a directory", dir)
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat %s: %w", dir, err)
	}

	if err := os.Mkdir(dir, 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", dir, err)
	}
	b.report.Success("created environment %s", EnvDir)
	return true, nil
}

// ActivationEnv is the environment that points the go command at EnvDir: module cache and
// installed binaries live inside it. The Makefile, .air.toml and setup.sh set the same variables.
func (b *Bootstrapper) ActivationEnv() []string {
	abs, err := filepath.Abs(b.path(EnvDir))
	if err != nil {
		abs = b.path(EnvDir)
	}
	return []string{
		"GOMODCACHE=" + filepath.Join(abs, "pkg", "mod"),
		"GOBIN=" + filepath.Join(abs, "bin"),
		"GOFLAGS=-modcacherw",
	}
}

func (b *Bootstrapper) install(ctx context.Context) error {
	if b.skipInstall {
		b.report.Warn("skipping dependency installation")
		return nil
	}

	env := b.ActivationEnv()
	steps := [][]string{
		{"version"},
		{"mod", "download"},
		{"mod", "verify"},
	}
	for _, args := range steps {
		b.report.Info("running %s %s", b.runtime, strings.Join(args, " "))
		if err := b.runner.Run(ctx, b.root, env, b.runtime, args...); err != nil {
			b.report.Error("%s %s failed", b.runtime, strings.Join(args, " "))
			return fmt.Errorf("%s %s: %w", b.runtime, strings.Join(args, " "), err)
		}
	}
	b.report.Success("dependencies installed")
	return nil
}

func (b *Bootstrapper) materializeConfig() (bool, error) {
	dst := b.path(ConfigFile)
	if exists(dst) {
		b.report.Info("%s already exists, leaving it untouched", ConfigFile)
		return false, nil
	}

	copied, err := copyIfAbsent(b.path(ExampleConfigFile), dst)
	if err != nil {
		return false, err
	}
	if copied {
		b.report.Success("created %s from %s", ConfigFile, ExampleConfigFile)
	} else {
		b.report.Info("%s already exists, leaving it untouched", ConfigFile)
	}
	return copied, nil
}

func (b *Bootstrapper) path(name string) string {
	return filepath.Join(b.root, name)
}

// copyIfAbsent copies src to dst byte for byte. It reports false when dst appeared concurrently.
func copyIfAbsent(src, dst string) (bool, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrExampleMissing, src)
		}
		return false, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return false, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return false, fmt.Errorf("close %s: %w", dst, err)
	}
	return true, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type exitCoder interface {
	ExitCode() int
}

// ExitCode maps a Run error to a process exit code. Installer failures keep the
// installer's own code; anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec exitCoder
	if errors.As(err, &ec) && ec.ExitCode() > 0 {
		return ec.ExitCode()
	}
	return 1
}
