package render

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultCompileTimeout = 30 * time.Second

// Compiler abstracts the external diagram compiler so callers and tests
// can substitute one without spawning a real process.
type Compiler interface {
	// Available reports whether the compiler can be invoked on this host.
	Available() bool
	// Compile turns the description at descPath into an image at outPath.
	Compile(ctx context.Context, descPath, outPath string) error
}

// D2Compiler invokes the d2 binary from PATH.
type D2Compiler struct {
	timeout time.Duration
}

// NewD2Compiler creates a compiler with the default invocation timeout.
func NewD2Compiler() *D2Compiler {
	return &D2Compiler{timeout: defaultCompileTimeout}
}

// Available reports whether d2 is on PATH.
func (c *D2Compiler) Available() bool {
	_, err := exec.LookPath("d2")
	return err == nil
}

// Compile runs "d2 <descPath> <outPath>" with a bounded timeout.
func (c *D2Compiler) Compile(ctx context.Context, descPath, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "d2", descPath, outPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("d2 compilation failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
