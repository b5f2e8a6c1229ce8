package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vcfcompile configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.vcfcompile.yaml.
Keys: compile.snpeff, compile.quality, compile.placeholder, compile.workers, log.level.`,
		Example: `  vcfcompile config                              # show all config
  vcfcompile config set compile.placeholder .     # use "." for missing values
  vcfcompile config get compile.quality           # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigGetCmd(a))

	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

// fileSettings returns the settings read from the config file only, so
// flag defaults bound to viper are not shown or persisted.
func (a *app) fileSettings() map[string]any {
	settings := make(map[string]any)
	for _, key := range a.v.AllKeys() {
		if a.v.InConfig(key) {
			setNested(settings, key, a.v.Get(key))
		}
	}
	return settings
}

func (a *app) runConfigShow(w io.Writer) error {
	settings := a.fileSettings()
	if len(settings) == 0 {
		fmt.Fprintln(w, "# No configuration set. Config file: ~/.vcfcompile.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

func (a *app) runConfigSet(w io.Writer, key, value string) error {
	settings := a.fileSettings()

	// Parse boolean-like and integer values
	var val any = value
	switch value {
	case "true", "yes", "on":
		val = true
	case "false", "no", "off":
		val = false
	default:
		if n, err := strconv.Atoi(value); err == nil {
			val = n
		}
	}
	setNested(settings, key, val)

	cfgFile, err := a.configPath()
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := writeFileAtomic(cfgFile, out); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func (a *app) runConfigGet(w io.Writer, key string) error {
	if !a.v.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, a.v.Get(key))
	return nil
}

// setNested stores val under a dotted key, creating intermediate maps.
func setNested(m map[string]any, key string, val any) {
	parts := strings.Split(strings.ToLower(key), ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

// writeFileAtomic writes data to a temp file and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
