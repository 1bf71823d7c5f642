package tui

import (
	"context"

	"github.com/killallgit/slate/pkg/agent"
	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/config"
	"github.com/killallgit/slate/pkg/controllers"
	"github.com/killallgit/slate/pkg/filters"
	"github.com/killallgit/slate/pkg/logger"
	"github.com/rivo/tview"
)

// StartApp wires the agent client, filter source, and session controller
// into the interactive chat view and runs the terminal application.
func StartApp(ctx context.Context) error {
	settings := config.Get()

	client := agent.NewClient(settings.Agent)
	source := filters.NewSource(settings.Filters.URL, settings.Filters.Timeout)

	app := tview.NewApplication()
	view := NewChatView(app, settings.Model)

	var controller *controllers.ChatController
	renderer := newViewRenderer(app, view, func() []chat.Message {
		return controller.GetHistory()
	})
	controller = controllers.NewChatController(client, source, renderer, renderer, settings.Model)

	view.SetSendMessageHandler(func(content string) {
		view.SetSending(true)
		go func() {
			if err := controller.Send(ctx, content); err != nil {
				logger.Error("Turn failed: %v", err)
			}
			app.QueueUpdateDraw(func() {
				view.SetSending(false)
				renderer.refreshTranscript()
			})
		}()
	})

	view.SetCancelHandler(controller.Cancel)

	app.SetRoot(view, true).SetFocus(view)
	return app.Run()
}
