package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pehjota/addonsync"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a tree for illegal and colliding names",
	Long:  "Check every file and directory name in an add-on tree for illegal characters, reserved names and case collisions.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(args[0])
	if err != nil {
		return err
	}

	problems := 0
	if !addonsync.NameLegal(tree.Name) {
		fmt.Printf("illegal add-on name: %s\n", tree.Name)
		problems++
	}
	if ok, bad := addonsync.CheckNames(tree, addonsync.CollectAll); !ok {
		for _, p := range bad {
			fmt.Printf("illegal name: %s\n", p)
		}
		problems += len(bad)
	}
	if ok, dup := addonsync.CheckDuplicates(tree, addonsync.CollectAll); !ok {
		for _, p := range dup {
			fmt.Printf("case collision: %s\n", p)
		}
		problems += len(dup)
	}

	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	fmt.Fprintln(os.Stderr, "OK")
	return nil
}
