package client

import (
	"fmt"
	"os"
	"os/exec"
)

// Start launches the server for lang, the executable "taco-<lang>" found on
// the search path, and connects to it over its standard streams.
func Start(lang string, opts ...Option) (*Client, error) {
	return launch(exec.Command("taco-"+lang), opts)
}

// StartScript launches the server program at path with the given arguments.
func StartScript(path string, args []string, opts ...Option) (*Client, error) {
	return launch(exec.Command(path, args...), opts)
}

func launch(cmd *exec.Cmd, opts []Option) (*Client, error) {
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("start error: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("start error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start error: %w", err)
	}

	c := New(stdout, stdin, opts...)
	c.cmd = cmd
	c.log.Infof("started %s (pid %d)", cmd.Path, cmd.Process.Pid)
	return c, nil
}
