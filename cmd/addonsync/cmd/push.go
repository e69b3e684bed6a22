package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync/internal/remote"
)

var pushCmd = &cobra.Command{
	Use:   "push <name> <image-ref>",
	Short: "Push a stored add-on to a registry",
	Long:  "Publish a stored add-on as an OCI image, e.g. registry.example.org/addons/era-of-myths:latest.",
	Args:  cobra.ExactArgs(2),
	RunE:  runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) (err error) {
	name, imageRef := args[0], args[1]

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
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	rem, err := remote.NewOCIRemote(imageRef, registryAuth())
	if err != nil {
		return err
	}
	rem.SetConcurrency(concurrency())

	fmt.Fprintf(os.Stderr, "Pushing %s to %s...\n", name, rem)

	objects := map[string][]byte{meta.Digest: data}
	if err := rem.Push(context.Background(), meta.Digest, metaJSON, objects); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done. Root: %s\n", meta.Digest)
	return nil
}
