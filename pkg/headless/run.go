package headless

import (
	"context"
	"fmt"
	"os"
)

// RunHeadless executes a single prompt and prints the streamed response to
// stdout. This is the main entry point for one-shot CLI execution.
func RunHeadless(ctx context.Context, prompt string) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}

	runner := newRunner(os.Stdout)
	return runner.run(ctx, prompt)
}
