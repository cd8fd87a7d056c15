package platform

import (
	"os/exec"
)

// Runner starts external commands. Start returns once the process is running;
// wait blocks until it exits.
type Runner interface {
	Start(name string, args ...string) (wait func() error, err error)
}

type execRunner struct{}

func (execRunner) Start(name string, args ...string) (func() error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}
