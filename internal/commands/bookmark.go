package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func addBookmark(topLevel *cobra.Command, o *rootOptions) {
	clearMark := false
	list := false
	cmd := &cobra.Command{
		Use:   "bookmark [FILE [LINE]]",
		Short: "Show, set or clear the bookmark of a book.",
		Example: `
thumbooks bookmark moby-dick.txt
thumbooks bookmark moby-dick.txt 120
thumbooks bookmark moby-dick.txt --clear
thumbooks bookmark --list
`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.services()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				for _, key := range s.Store.Keys(cmd.Context()) {
					_, _ = fmt.Fprintf(out, "%s\t%d\n", key, s.Bookmarks.Load(key))
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a FILE is required unless --list is set")
			}

			file := args[0]
			switch {
			case clearMark:
				return s.Store.Delete(file)
			case len(args) == 2:
				line, err := strconv.Atoi(args[1])
				if err != nil || line < 0 {
					return fmt.Errorf("invalid line %q: must be a non-negative integer", args[1])
				}
				return s.Bookmarks.Save(file, line)
			default:
				_, _ = fmt.Fprintln(out, s.Bookmarks.Load(file))
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&clearMark, "clear", false, "Remove the bookmark.")
	cmd.Flags().BoolVar(&list, "list", false, "List every saved bookmark.")
	topLevel.AddCommand(cmd)
}
