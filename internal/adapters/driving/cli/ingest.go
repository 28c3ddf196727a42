package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
)

var (
	ingestTitle       string
	ingestOnDuplicate string
	ingestJSON        bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source]",
	Short: "Ingest documentation from a URL or file",
	Long: `Loads the source, splits it into overlapping chunks, embeds them,
and persists everything atomically. The source can be an http(s) URL or a
local file path (.txt, .md, .html, .rst).`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "override the extracted title")
	ingestCmd.Flags().StringVar(&ingestOnDuplicate, "on-duplicate", "reject",
		"what to do when the source exists: reject, skip, or replace")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	policy, err := domain.ParseDuplicatePolicy(ingestOnDuplicate)
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	result, err := app.ingestion.Ingest(cmd.Context(), driving.IngestRequest{
		Source:      args[0],
		Title:       ingestTitle,
		OnDuplicate: policy,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, map[string]any{
			"document_id":    result.Document.ID,
			"title":          result.Document.Title,
			"source":         result.Document.Source,
			"source_type":    result.Document.SourceType,
			"chunks_created": result.ChunksCreated,
		})
	}

	if result.ChunksCreated == 0 {
		cmd.Println(mutedStyle.Render(
			fmt.Sprintf("Skipped: %q was already ingested (%s)", result.Document.Source, result.Document.ID)))
		return nil
	}
	cmd.Println(titleStyle.Render(result.Document.Title))
	cmd.Printf("  id:     %s\n", result.Document.ID)
	cmd.Printf("  source: %s\n", result.Document.Source)
	cmd.Printf("  chunks: %d\n", result.ChunksCreated)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
