// File: cmd/diagnostic/offline.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-sqlchat/internal/config"
	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/services/ai"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
)

type contextFlags struct {
	tables  []string
	queries []string
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.tables, "table", nil, "pretend the chat already has a schema for this table (repeatable)")
	cmd.Flags().StringSliceVar(&f.queries, "query", nil, "pretend the chat already has this query (repeatable)")
}

func (f *contextFlags) build() *chat.ChatContext {
	cc := &chat.ChatContext{}
	for _, t := range f.tables {
		cc.Schemas = append(cc.Schemas, domain.Schema{
			Table:        t,
			SQLStatement: fmt.Sprintf("CREATE TABLE %s (id INT PRIMARY KEY);", t),
		})
	}
	for _, q := range f.queries {
		cc.Queries = append(cc.Queries, domain.Query{GeneratedSQL: q, NaturalLanguage: q})
	}
	return cc
}

func newClassifyCommand() *cobra.Command {
	var flags contextFlags
	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Print the intent a message would be classified as",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), chat.Classify(args[0], flags.build()))
		},
	}
	flags.register(cmd)
	return cmd
}

func newPromptCommand() *cobra.Command {
	var flags contextFlags
	var intentName string
	cmd := &cobra.Command{
		Use:   "prompt <message>",
		Short: "Print the system instruction built for a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := flags.build()
			intent := chat.Classify(args[0], cc)
			if intentName != "" {
				parsed, err := chat.ParseIntent(intentName)
				if err != nil {
					return err
				}
				intent = parsed
			}
			instruction, err := chat.BuildInstruction(cc, intent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "intent: %s\n\n%s\n", intent, instruction)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&intentName, "intent", "", "force an intent instead of classifying")
	return cmd
}

func newGateway(ctx context.Context, cfg *config.Config) (ai.Gateway, error) {
	aiConfig := ai.DefaultConfig()
	aiConfig.Provider = cfg.AI.Provider
	aiConfig.APIKey = cfg.AI.APIKey
	aiConfig.BaseURL = cfg.AI.BaseURL
	aiConfig.Model = cfg.AI.Model
	aiConfig.Timeout = cfg.AI.Timeout
	aiConfig.MaxRetries = cfg.AI.MaxRetries
	aiConfig.MaxConcurrency = 1
	return ai.NewGateway(ctx, aiConfig)
}
