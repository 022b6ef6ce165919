package osdetail

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// RunCmd runs the given command and run error checks on the output.
// If the command is not installed, the returned error wraps ErrNotFound.
func RunCmd(command ...string) (output []byte, err error) {
	if len(command) == 0 {
		return nil, errors.New("no command supplied")
	}

	path, err := exec.LookPath(command[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, command[0])
	}
	cmd := exec.Command(path, command[1:]...)

	// Create and assign output buffers.
	var stdoutBuf bytes.Buffer
	var stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	// Run command and collect output.
	err = cmd.Run()
	stdout, stderr := stdoutBuf.Bytes(), stderrBuf.Bytes()
	if err != nil {
		if len(stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", command[0], err, firstLine(stderr))
		}
		return nil, fmt.Errorf("%s: %w", command[0], err)
	}
	// Command might not return an error, but just write to stderr instead.
	if len(stderr) > 0 {
		return nil, errors.New(firstLine(stderr))
	}

	// Finalize stdout.
	cleanedOutput := bytes.TrimSpace(stdout)
	if len(cleanedOutput) == 0 {
		return nil, ErrEmptyOutput
	}

	return cleanedOutput, nil
}

func firstLine(b []byte) string {
	return strings.TrimSpace(strings.SplitN(string(b), "\n", 2)[0])
}
