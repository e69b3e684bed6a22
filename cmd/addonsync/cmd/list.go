package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored add-ons",
	Long:  "List every add-on in the local store with its type, version and tree digest.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) (err error) {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	metas, err := st.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("(no add-ons)")
		return nil
	}

	for _, m := range metas {
		version := m.Version
		if version == "" {
			version = "-"
		}
		digest := m.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", m.Name, m.Type, version, digest)
	}
	return nil
}
