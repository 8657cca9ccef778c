package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/honganh1206/guideme/api"
)

const (
	colorReset = "\033[0m"
	colorBlue  = "\033[34m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
)

func interactive(ctx context.Context, client *api.Client, chatContext map[string]any, in io.Reader, out io.Writer) error {
	printWelcome(out, client)

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintf(out, "\n%s> %s", colorBlue, colorReset)
		if !scanner.Scan() {
			break
		}
		// Space between input and output
		fmt.Fprintln(out)

		userInput := strings.TrimSpace(scanner.Text())
		if userInput == "" {
			continue
		}
		if userInput == "/quit" || userInput == "/exit" {
			return nil
		}

		reply, err := sendOne(ctx, client, userInput, chatContext)
		if err != nil {
			fmt.Fprintf(out, "%sError: %v%s\n", colorRed, err, colorReset)
			continue
		}

		fmt.Fprintf(out, "%s%s%s\n", colorGreen, reply, colorReset)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

func sendOne(ctx context.Context, client *api.Client, message string, chatContext map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := client.SendChatMessage(ctx, message, chatContext)
	if err != nil {
		return "", err
	}

	reply, err := chatReply(resp)
	if errors.Is(err, errNoResponse) {
		return "", errNoResponse
	}
	return reply, err
}

func printWelcome(out io.Writer, client *api.Client) {
	baseURL, enabled := client.BaseURL()
	if !enabled {
		fmt.Fprintf(out, "%sGuideMe API is disabled for this host; messages will not be sent.%s\n", colorRed, colorReset)
	} else {
		fmt.Fprintf(out, "Chatting with %s\n", baseURL)
	}
	fmt.Fprintln(out, "Type /quit to leave.")
}
