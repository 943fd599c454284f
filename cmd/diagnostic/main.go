// File: cmd/diagnostic/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "diagnostic",
		Short:         "Offline and live checks for the SQL chat assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLLMCommand(), newClassifyCommand(), newPromptCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
