package headless

import (
	"context"
	"fmt"
	"io"

	"github.com/killallgit/slate/pkg/agent"
	"github.com/killallgit/slate/pkg/config"
	"github.com/killallgit/slate/pkg/controllers"
	"github.com/killallgit/slate/pkg/filters"
	"github.com/killallgit/slate/pkg/logger"
	"github.com/killallgit/slate/pkg/render"
)

// runner drives a single chat turn outside the TUI
type runner struct {
	controller *controllers.ChatController
	out        io.Writer
}

func newRunner(out io.Writer) *runner {
	settings := config.Get()

	client := agent.NewClient(settings.Agent)
	source := filters.NewSource(settings.Filters.URL, settings.Filters.Timeout)
	renderer := render.NewConsoleRenderer(out)

	controller := controllers.NewChatController(client, source, renderer, renderer, settings.Model)

	return &runner{
		controller: controller,
		out:        out,
	}
}

func (r *runner) run(ctx context.Context, prompt string) error {
	logger.Debug("Headless prompt: %s", prompt)

	if err := r.controller.Send(ctx, prompt); err != nil {
		logger.Error("Headless turn failed: %v", err)
		return fmt.Errorf("failed to execute prompt: %w", err)
	}

	if id := r.controller.LastRequestID(); id != "" {
		fmt.Fprintf(r.out, "\n[request id: %s]\n", id)
	}

	logger.Debug("Headless turn complete, %d messages in transcript", r.controller.GetMessageCount())
	return nil
}
