package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync"
	"github.com/pehjota/addonsync/internal/disk"
	"github.com/pehjota/addonsync/wml"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Build an update pack between two trees",
	Long: "Compute the update pack that turns the old tree into the new one. " +
		"Either side may be a directory, a WML file or a hashlist.",
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	from, err := loadTree(args[0])
	if err != nil {
		return err
	}
	to, err := loadTree(args[1])
	if err != nil {
		return err
	}

	pack := addonsync.MakeUpdatePack(from, to)
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return disk.SavePack(out, pack)
	}
	return wml.WritePack(os.Stdout, pack)
}
