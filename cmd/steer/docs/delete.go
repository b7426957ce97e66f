package docscmder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
)

const deleteLongDesc string = `Delete one indexed document from the vector store.

Asks for confirmation unless --yes is given. Deletion is permanent; the
document has to be re-uploaded to come back.

Examples:
  steer docs delete 3f8a2c71-9b0e-4d55-a1f2-6c0d8e9b1a23
  steer docs delete 3f8a2c71-9b0e-4d55-a1f2-6c0d8e9b1a23 --yes`

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete an indexed document",
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDocsClient(cmd)
			if err != nil {
				return err
			}
			var confirmer cliui.Confirmer
			if !yes {
				confirmer = &cliui.StdioConfirmer{In: os.Stdin, Out: os.Stdout}
			}
			return runDelete(os.Stdout, client, args[0], confirmer)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// runDelete asks confirmer before issuing the delete; a nil confirmer means
// the caller already confirmed.
func runDelete(w io.Writer, client *adminapi.Client, id string, confirmer cliui.Confirmer) error {
	ctx := context.Background()

	doc, err := client.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if confirmer != nil && !confirmer.Confirm(fmt.Sprintf("delete %q", doc.DisplayName())) {
		fmt.Fprintln(w, "Aborted.")
		return nil
	}

	if err := client.DeleteDocument(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s deleted %s\n", cliui.SuccessMark, doc.DisplayName())
	return nil
}
