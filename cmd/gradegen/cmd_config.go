package main

import (
	"errors"
	"fmt"
	"gradegen/internal/config"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s (use --force to overwrite)\n", path)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config: %w", err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
