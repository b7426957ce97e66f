package docscmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
)

const showLongDesc string = `Show the full text of one indexed document.

Markdown files are rendered for the terminal; everything else prints raw.

Examples:
  steer docs show 3f8a2c71-9b0e-4d55-a1f2-6c0d8e9b1a23
  steer docs show 3f8a2c71-9b0e-4d55-a1f2-6c0d8e9b1a23 --raw`

func newShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show an indexed document",
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDocsClient(cmd)
			if err != nil {
				return err
			}
			return runShow(os.Stdout, client, args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the document text without markdown rendering")

	return cmd
}

func runShow(w io.Writer, client *adminapi.Client, id string, raw bool) error {
	doc, err := client.GetDocument(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s %s\n", cliui.KeyStyle.Render("Document:"), cliui.ValueStyle.Render(doc.DisplayName()))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Size:    "), cliui.ValueStyle.Render(cliui.FormatFileSize(doc.Metadata.FileSize)))
	fmt.Fprintf(w, "  %s %s\n\n", cliui.KeyStyle.Render("Uploaded:"), cliui.ValueStyle.Render(cliui.FormatTime(doc.Metadata.UploadTime.Time)))

	if !raw && strings.HasSuffix(strings.ToLower(doc.Metadata.Filename), ".md") {
		rendered, renderErr := cliui.RenderMarkdown(doc.Text)
		if renderErr == nil {
			fmt.Fprintln(w, rendered)
			return nil
		}
	}

	fmt.Fprintln(w, doc.Text)
	return nil
}
