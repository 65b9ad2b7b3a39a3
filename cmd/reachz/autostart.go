package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reachz/internal/autostart"
)

func autostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting the receiver at login",
	}

	entry := func(cmd *cobra.Command) (*autostart.Entry, error) {
		var args []string
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, err
			}
			args = append(args, "--config", abs)
		}
		return autostart.Default(args...)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Start the receiver at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entry(cmd)
			if err != nil {
				return err
			}
			if err := e.Enable(); err != nil {
				return fmt.Errorf("enabling autostart: %w", err)
			}
			fmt.Println("Autostart enabled")
			return nil
		},
	}, &cobra.Command{
		Use:   "disable",
		Short: "Stop starting the receiver at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entry(cmd)
			if err != nil {
				return err
			}
			if err := e.Disable(); err != nil {
				return fmt.Errorf("disabling autostart: %w", err)
			}
			fmt.Println("Autostart disabled")
			return nil
		},
	}, &cobra.Command{
		Use:   "status",
		Short: "Show whether the receiver starts at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entry(cmd)
			if err != nil {
				return err
			}
			if e.IsEnabled() {
				fmt.Println("Autostart: enabled")
				if p := e.Path(); p != "" {
					fmt.Println(p)
				}
			} else {
				fmt.Println("Autostart: disabled")
			}
			return nil
		},
	})
	return cmd
}
