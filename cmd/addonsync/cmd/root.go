package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pehjota/addonsync"
	"github.com/pehjota/addonsync/internal/disk"
	"github.com/pehjota/addonsync/internal/remote"
	"github.com/pehjota/addonsync/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "addonsync",
	Short: "Add-on content tree synchronization CLI",
	Long:  "CLI for validating, diffing, storing and distributing game add-on content trees.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/addonsync/config.yaml)")
	rootCmd.PersistentFlags().String("store-dir", "", "store directory (default: ~/.local/share/addonsync)")
	rootCmd.PersistentFlags().Int("concurrency", 0, "parallel file and registry operations")

	viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ADDONSYNC")
	viper.AutomaticEnv()
	viper.SetDefault("store_dir", defaultStoreDir())
	viper.SetDefault("compression", true)
	viper.SetDefault("compression_level", 2)

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "addonsync")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "addonsync")
	}
	return ".addonsync"
}

func defaultStoreDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "addonsync")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "addonsync")
	}
	return ".addonsync"
}

func openStore() (store.Store, error) {
	return store.NewLocalStore(
		viper.GetString("store_dir"),
		viper.GetInt("cache_size"),
		viper.GetInt("compression_level"),
		viper.GetBool("compression"),
	)
}

func concurrency() int {
	if n := viper.GetInt("concurrency"); n > 0 {
		return n
	}
	return disk.DefaultConcurrency
}

func registryAuth() remote.Authenticator {
	if user := viper.GetString("registry_user"); user != "" {
		return remote.StaticAuth{
			Username: user,
			Password: viper.GetString("registry_password"),
		}
	}
	return nil
}

// loadTree reads a tree from a directory or a WML file.
func loadTree(path string) (*addonsync.Dir, error) {
	return disk.ReadTree(path, disk.WithConcurrency(concurrency()))
}

// saveTreeTo writes a tree as WML when the path looks like a document,
// otherwise materializes it as a directory.
func saveTreeTo(path string, tree *addonsync.Dir) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return disk.WriteTree(path, tree)
	}
	if strings.HasSuffix(path, ".wml") || strings.HasSuffix(path, ".gz") {
		return disk.SaveTree(path, tree)
	}
	return disk.WriteTree(path, tree)
}
