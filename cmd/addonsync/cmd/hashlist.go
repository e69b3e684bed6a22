package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync"
	"github.com/pehjota/addonsync/internal/disk"
	"github.com/pehjota/addonsync/wml"
)

var hashlistCmd = &cobra.Command{
	Use:   "hashlist <path>",
	Short: "Print the hashlist of a tree",
	Long:  "Project an add-on tree onto digests only, dropping file payloads.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashlist,
}

func init() {
	hashlistCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(hashlistCmd)
}

func runHashlist(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return err
	}
	hl := addonsync.BuildHashlist(tree)

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return disk.SaveTree(out, hl)
	}
	return wml.WriteTree(os.Stdout, hl)
}
