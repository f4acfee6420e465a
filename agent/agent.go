// Package agent implements the AI assistant behind `pt assist`: an
// interactive chat session grounded in the current valuation snapshot.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

const systemPrompt = `
You are a portfolio analyst for a private investor. The user's current
portfolio valuation is given below in markdown. Answer questions about
allocations, exposure and unrealized performance using only those figures.
Flag stale or unpriced positions when they affect an answer. You give
analysis, never investment advice or predictions.
`

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w    io.Writer
	r    *bufio.Reader
	chat *genai.Chat
}

// New creates a new Agent writing its output to w and reading user input
// from r (e.g. os.Stdout and os.Stdin).
func New(w io.Writer, r io.Reader) *Agent {
	return &Agent{w: w, r: bufio.NewReader(r)}
}

// Start creates the chat session, seeding the system instruction with the
// portfolio report the session will reason about.
func (a *Agent) Start(ctx context.Context, client *genai.Client, report string) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt + "\n" + report}}},
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends one question and returns the assistant's text answer.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the agent. Initial prompts are
// consumed before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, report string, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client, report); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to pt assist. Type 'bye' to exit.")

	// REPL loop
	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
