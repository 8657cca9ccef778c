package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/honganh1206/guideme/api"
	"github.com/rivo/tview"
)

func tui(ctx context.Context, client *api.Client, chatContext map[string]any) error {
	app := tview.NewApplication()

	conversationView := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)

	baseURL, enabled := client.BaseURL()
	if enabled {
		conversationView.SetTitle(" GuideMe · " + baseURL + " ").SetBorder(true)
	} else {
		conversationView.SetTitle(" GuideMe · API disabled ").SetBorder(true)
	}

	questionInput := tview.NewTextArea()
	questionInput.SetTitle("Enter to send (ESC to focus conversation, Ctrl+C to quit)").
		SetTitleAlign(tview.AlignLeft).
		SetBorder(true)

	mainLayout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(conversationView, 0, 1, false).
		AddItem(questionInput, 5, 1, true)

	conversationView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			app.SetFocus(questionInput)
		}
		return event
	})

	questionInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			if conversationView.GetText(false) != "" {
				app.SetFocus(conversationView)
			}
		case tcell.KeyEnter:
			content := questionInput.GetText()
			if strings.TrimSpace(content) == "" {
				return nil
			}
			questionInput.SetText("", false)
			questionInput.SetDisabled(true)

			fmt.Fprintf(conversationView, "[azure::]> %s[-:-:-]\n\n", tview.Escape(content))
			conversationView.ScrollToEnd()

			go func() {
				reply, err := sendOne(ctx, client, content, chatContext)

				app.QueueUpdateDraw(func() {
					if err != nil {
						fmt.Fprintf(conversationView, "[red::]Error: %s[-:-:-]\n\n", tview.Escape(err.Error()))
					} else {
						fmt.Fprintf(conversationView, "[white::]%s\n\n", tview.Escape(reply))
					}
					conversationView.ScrollToEnd()
					questionInput.SetDisabled(false)
				})
			}()

			return nil
		}
		return event
	})

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	return app.SetRoot(mainLayout, true).SetFocus(questionInput).Run()
}
