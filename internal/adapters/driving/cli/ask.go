package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
)

var (
	askNoStream bool
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documentation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoStream, "no-stream", false, "wait for the complete answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON (implies --no-stream)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	req := driving.AskRequest{Question: args[0]}

	if askJSON || askNoStream {
		answer, err := app.questions.Ask(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}
		if askJSON {
			return printJSON(cmd, map[string]any{
				"text":    answer.Text,
				"sources": answer.Sources,
			})
		}
		cmd.Println(answer.Text)
		printSources(cmd, answer.Sources)
		return nil
	}

	events, err := app.questions.AskStream(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	var sources []domain.SourceReference
	for event := range events {
		switch event.Type {
		case domain.EventText:
			cmd.Print(event.Content)
		case domain.EventSources:
			sources = event.Sources
		case domain.EventDone:
			cmd.Println()
		case domain.EventError:
			cmd.Println()
			cmd.Println(errorStyle.Render(event.Content))
			return errors.New(event.Content)
		}
	}
	printSources(cmd, sources)
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SourceReference) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println(titleStyle.Render("Sources:"))
	for i, src := range sources {
		cmd.Printf("  [%d] %s %s\n", i+1,
			src.DocumentTitle,
			scoreStyle.Render(fmt.Sprintf("(%.2f)", src.RelevanceScore)))
	}
}
