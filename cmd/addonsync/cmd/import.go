package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync"
	"github.com/pehjota/addonsync/internal/store"
	"github.com/pehjota/addonsync/wml"
)

var importCmd = &cobra.Command{
	Use:   "import <name> <path>",
	Short: "Import a tree into the local store",
	Long:  "Validate an add-on tree and record it in the local store under the given name.",
	Args:  cobra.ExactArgs(2),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().String("type", "", "add-on type (campaign, era, map_pack, ...)")
	importCmd.Flags().String("version", "", "add-on version")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	name, path := args[0], args[1]
	if !addonsync.NameLegal(name) {
		return fmt.Errorf("illegal add-on name %q", name)
	}

	typeStr, _ := cmd.Flags().GetString("type")
	addonType := addonsync.ParseType(typeStr)
	if typeStr != "" && addonType == addonsync.TypeUnknown {
		return fmt.Errorf("unknown add-on type %q", typeStr)
	}
	version, _ := cmd.Flags().GetString("version")

	tree, err := loadTree(path)
	if err != nil {
		return err
	}
	tree.Name = name

	if ok, bad := addonsync.CheckNames(tree, addonsync.CollectAll); !ok {
		return fmt.Errorf("tree has %d illegal names, first %q", len(bad), bad[0])
	}
	if ok, dup := addonsync.CheckDuplicates(tree, addonsync.CollectAll); !ok {
		return fmt.Errorf("tree has case-colliding names, first %q", dup[0])
	}

	var buf bytes.Buffer
	if err := wml.WriteTree(&buf, tree); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	digest, err := st.Put(context.Background(), buf.Bytes())
	if err != nil {
		return err
	}
	if err := st.PutMeta(&store.Meta{
		Name:    name,
		Type:    addonType,
		Version: version,
		Digest:  digest,
		Updated: time.Now().UTC(),
	}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Imported %s (%s)\n", name, digest[:12])
	return nil
}
