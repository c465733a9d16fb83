package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Command generates text by running a local CLI (for example "claude -p")
// with the prompt as its final argument and reading stdout.
type Command struct {
	Bin   string
	Args  []string
	Model string
}

func NewCommand(argv []string, model string) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("llm: command is empty")
	}
	return &Command{Bin: argv[0], Args: append([]string(nil), argv[1:]...), Model: model}, nil
}

// Preflight checks that the command binary is on PATH.
func (c *Command) Preflight() error {
	if _, err := exec.LookPath(c.Bin); err != nil {
		return fmt.Errorf("required binary not found in PATH: %s", c.Bin)
	}
	return nil
}

func (c *Command) Generate(ctx context.Context, prompt string, _ Options) (string, error) {
	args := append([]string(nil), c.Args...)
	if c.Model != "" {
		args = append(args, "--model", c.Model)
	}
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Env = childEnv()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code, err := exitCode(cmd.Run())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", fmt.Errorf("%s exited with code %d: %s", c.Bin, code, strings.TrimSpace(stderr.String()))
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// childEnv is the current environment minus CLAUDECODE markers, so a
// nested claude CLI does not refuse to start.
func childEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		key := strings.SplitN(e, "=", 2)[0]
		if strings.HasPrefix(key, "CLAUDECODE") {
			continue
		}
		env = append(env, e)
	}
	return env
}

// exitCode extracts an exit code from a command error.
// Returns (code, nil) for ExitError, (0, err) for other errors, (0, nil) for nil.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
