package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyaoi/thumbooks/internal/paginate"
)

func addPage(topLevel *cobra.Command, o *rootOptions) {
	offset := 0
	bookmarked := false
	cmd := &cobra.Command{
		Use:   "page FILE",
		Short: "Print one page of a book.",
		Example: `
thumbooks page moby-dick.txt
thumbooks page moby-dick.txt --offset 120
thumbooks page moby-dick.txt --bookmark
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.services()
			if err != nil {
				return err
			}
			file := args[0]
			if bookmarked {
				offset = s.Bookmarks.Load(file)
			}
			if offset < 0 {
				return fmt.Errorf("offset must not be negative: %d", offset)
			}

			page := s.Pages.ComputePage(file, offset)
			if page.Kind == paginate.ReadError {
				return fmt.Errorf("read %s: %w", file, page.Err)
			}
			out := cmd.OutOrStdout()
			for _, line := range page.Lines {
				_, _ = fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Wrapped line to start the page at.")
	cmd.Flags().BoolVarP(&bookmarked, "bookmark", "b", false, "Start at the saved bookmark.")
	topLevel.AddCommand(cmd)
}
