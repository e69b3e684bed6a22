package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync/internal/disk"
)

var applyCmd = &cobra.Command{
	Use:   "apply <base> <pack>",
	Short: "Apply an update pack to a tree",
	Long: "Apply an update pack to a base tree and write the result. " +
		"Removals run before additions, so modified files end up replaced.",
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("output", "o", "", "destination directory or WML file")
	applyCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	base, err := loadTree(args[0])
	if err != nil {
		return err
	}
	pack, err := disk.ReadPack(args[1])
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	return saveTreeTo(out, pack.Apply(base))
}
