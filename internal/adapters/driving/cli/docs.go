package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the ingested corpus",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runDocsList,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	docsListCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	docs, err := app.documents.List(cmd.Context(), 0, 0)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if docsJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}
	for _, doc := range docs {
		cmd.Println(titleStyle.Render(doc.Title))
		cmd.Printf("  id:      %s\n", doc.ID)
		cmd.Printf("  source:  %s (%s)\n", doc.Source, doc.SourceType)
		cmd.Printf("  chunks:  %d\n", doc.ChunkCount)
		cmd.Println(mutedStyle.Render(
			fmt.Sprintf("  created: %s", doc.CreatedAt.Format("2006-01-02 15:04:05"))))
	}
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.documents.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
