package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/kyaoi/thumbooks/internal/catalog"
)

func addList(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the books in the root directory with their bookmarks.",
		Example: `
thumbooks list
thumbooks list --root ~/books
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.services()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			files := s.Catalog.ListFiles()
			if catalog.IsError(files) {
				_, _ = color.New(color.FgRed).Fprintln(out, files[0])
				return nil
			}
			if len(files) == 0 {
				_, _ = fmt.Fprintln(out, "No files")
				return nil
			}

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("BOOK"), bold.Sprint("LINE"))
			for _, file := range files {
				tbl.AddRow(file, s.Bookmarks.Load(file))
			}
			tbl.RightAlign(1)
			_, _ = fmt.Fprintln(out, tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
