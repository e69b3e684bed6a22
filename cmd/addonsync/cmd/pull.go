package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync/internal/remote"
	"github.com/pehjota/addonsync/internal/store"
)

var pullCmd = &cobra.Command{
	Use:   "pull <image-ref>",
	Short: "Pull an add-on from a registry",
	Long:  "Download an add-on image and record it in the local store under its published name.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) (err error) {
	rem, err := remote.NewOCIRemote(args[0], registryAuth())
	if err != nil {
		return err
	}
	rem.SetConcurrency(concurrency())

	fmt.Fprintf(os.Stderr, "Pulling %s...\n", rem)

	ctx := context.Background()
	rootDigest, metaJSON, objects, err := rem.Pull(ctx)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
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

	for digest, data := range objects {
		stored, err := st.Put(ctx, data)
		if err != nil {
			return err
		}
		if stored != digest {
			return fmt.Errorf("%w: %s stored as %s", remote.ErrDigestMismatch, digest, stored)
		}
	}

	meta := &store.Meta{}
	if err := json.Unmarshal(metaJSON, meta); err != nil {
		return fmt.Errorf("image metadata is corrupt: %w", err)
	}
	if meta.Name == "" || meta.Digest != rootDigest {
		return fmt.Errorf("image metadata does not match its root object")
	}
	meta.Updated = time.Now().UTC()
	if err := st.PutMeta(meta); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Done. %s is at %s\n", meta.Name, rootDigest[:12])
	return nil
}
