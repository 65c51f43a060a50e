package main

import (
	"fmt"
	"os"

	"focusring/internal/platform"

	"github.com/spf13/cobra"
)

type loginEntry interface {
	Enable(execPath string, args ...string) error
	Disable() error
	Enabled() (bool, error)
}

func newAutostartCommand(entry loginEntry, executable func() (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launching " + appName + " at login",
	}

	var headless bool
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Launch at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			execPath, err := executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			var args []string
			if headless {
				args = append(args, "--headless")
			}
			if err := entry.Enable(execPath, args...); err != nil {
				return err
			}
			cmd.Println("autostart enabled")
			return nil
		},
	}
	enable.Flags().BoolVar(&headless, "headless", false, "start in terminal mode")

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Stop launching at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := entry.Disable(); err != nil {
				return err
			}
			cmd.Println("autostart disabled")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether launching at login is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := entry.Enabled()
			if err != nil {
				return err
			}
			if enabled {
				cmd.Println("enabled")
			} else {
				cmd.Println("disabled")
			}
			return nil
		},
	}

	cmd.AddCommand(enable, disable, status)
	return cmd
}

func defaultAutostartCommand() *cobra.Command {
	return newAutostartCommand(platform.NewAutostart(appName), os.Executable)
}
