package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/procwise/coachstream/extract"
)

func extractCmd() *cobra.Command {
	var (
		asJSON   bool
		noLegacy bool
		noBare   bool
	)

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract payloads from a transcript file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}

			e := extract.New(extract.Options{
				LegacySuggestionTag:    !noLegacy,
				BareSuggestionFallback: !noBare,
			})
			result := e.Extract(text)

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full result as JSON")
	cmd.Flags().BoolVar(&noLegacy, "no-legacy", false, "Reject the legacy single-object suggestion tag")
	cmd.Flags().BoolVar(&noBare, "no-bare-fallback", false, "Skip the unfenced suggestion-object fallback")
	return cmd
}

func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func printResult(result extract.Result) {
	fmt.Println(result.CleanedText)

	if result.Partial != "" {
		fmt.Printf("\n-- block in progress: %s --\n", result.Partial)
	}
	if result.Scores != nil {
		fmt.Printf("\nADLI scores: approach=%d deployment=%d learning=%d integration=%d\n",
			result.Scores.Approach, result.Scores.Deployment,
			result.Scores.Learning, result.Scores.Integration)
	}
	for _, s := range result.Suggestions {
		label, ok := extract.FieldLabel(s.Field)
		if !ok {
			label = s.Field
		}
		fmt.Printf("\nSuggestion %s (%s): %s\n", s.ID, label, s.Rationale)
	}
	for _, task := range result.Tasks {
		fmt.Printf("\nTask [%s]: %s (owner: %s, effort: %d)\n", task.Action, task.Title, task.Owner, task.Effort)
	}
	for _, m := range result.Metrics {
		fmt.Printf("\nMetric [%s]: %s (target: %s)\n", m.Category, m.Name, m.Target)
	}
}
