package docscmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
)

const listLongDesc string = `List the documents in the vector store collection.

Prints one row per document with its id, filename, size and upload time.

Examples:
  steer docs list
  steer docs list --limit 20`

func newListCmd() *cobra.Command {
	var limit uint

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newDocsClient(cmd)
			if err != nil {
				return err
			}
			return runList(os.Stdout, client, limit)
		},
	}

	cmd.Flags().UintVarP(&limit, "limit", "l", 100, "Maximum number of documents to list")

	return cmd
}

func runList(w io.Writer, client *adminapi.Client, limit uint) error {
	list, err := client.ListDocuments(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(list.Documents) == 0 {
		fmt.Fprintln(w, "No documents indexed.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tUPLOADED")
	for _, doc := range list.Documents {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			doc.ID,
			doc.DisplayName(),
			cliui.FormatFileSize(doc.Metadata.FileSize),
			cliui.FormatTime(doc.Metadata.UploadTime.Time),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d of %d documents\n", len(list.Documents), list.Total)
	return nil
}
