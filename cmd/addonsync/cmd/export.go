package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync/wml"
)

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a stored add-on",
	Long:  "Write the current tree of a stored add-on to a directory or WML file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "destination (default: the add-on name)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	name := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	meta, err := st.Meta(name)
	if err != nil {
		return err
	}
	data, err := st.Get(context.Background(), meta.Digest)
	if err != nil {
		return err
	}
	tree, err := wml.ParseTree(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("stored tree for %s is corrupt: %w", name, err)
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = name
	}
	if err := saveTreeTo(out, tree); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %s to %s\n", name, out)
	return nil
}
