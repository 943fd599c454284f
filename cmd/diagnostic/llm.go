// File: cmd/diagnostic/llm.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-sqlchat/internal/config"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
)

// newLLMCommand sends one message through the configured gateway, using the
// same prompt the server would build for an empty chat.
func newLLMCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "llm [message]",
		Short: "Send a message to the configured AI provider and print the parsed reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := "Design a database for a bookstore"
			if len(args) == 1 {
				message = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			gateway, err := newGateway(ctx, cfg)
			if err != nil {
				return err
			}

			cc := &chat.ChatContext{}
			intent := chat.Classify(message, cc)
			instruction, err := chat.BuildInstruction(cc, intent)
			if err != nil {
				return err
			}

			conv, err := gateway.StartConversation(ctx, instruction, nil)
			if err != nil {
				return err
			}
			start := time.Now()
			raw, err := conv.SendMessage(ctx, message)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			parsed := chat.ParseResponse(chat.CleanResponse(raw))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "provider: %s  model: %s  latency: %s\n", cfg.AI.Provider, cfg.AI.Model, time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(out, "intent:   %s\n", intent)
			if parsed == nil {
				fmt.Fprintln(out, "reply:    <empty>")
				return nil
			}
			fmt.Fprintf(out, "text:\n%s\n", parsed.Text)
			if parsed.HasSQL {
				fmt.Fprintf(out, "sql:\n%s\n", chat.FormatSQLForStorage(parsed.SQL).String())
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "overall deadline")
	return cmd
}
