package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"rmkit/internal/chip"
	"rmkit/internal/diagnostic"
	"rmkit/internal/project"
)

func newGetChipCmd(a *app) *cobra.Command {
	var hwPath string

	cmd := &cobra.Command{
		Use:   "get-chip",
		Short: "Print the chip named by keyboard.toml",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info, err := project.New(project.DefaultConfig(), a.logger).Describe(hwPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, info.Chip)

			return nil
		},
	}

	cmd.Flags().StringVar(&hwPath, "keyboard-toml-path", "", "Path to keyboard.toml")
	_ = cmd.MarkFlagRequired("keyboard-toml-path")

	return cmd
}

func newGetProjectNameCmd(a *app) *cobra.Command {
	var hwPath string

	cmd := &cobra.Command{
		Use:   "get-project-name",
		Short: "Print the project name derived from keyboard.toml",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info, err := project.New(project.DefaultConfig(), a.logger).Describe(hwPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, info.ProjectName)

			return nil
		},
	}

	cmd.Flags().StringVar(&hwPath, "keyboard-toml-path", "", "Path to keyboard.toml")
	_ = cmd.MarkFlagRequired("keyboard-toml-path")

	return cmd
}

func newChipsCmd(a *app) *cobra.Command {
	var split, boards bool

	cmd := &cobra.Command{
		Use:   "chips",
		Short: "List supported chips and boards",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			catalog := chip.Default()

			if boards {
				for _, name := range catalog.BoardNames() {
					info, _ := catalog.Board(name)
					fmt.Fprintf(a.stdout, "%s\t%s\n", name, info.Name)
				}

				return nil
			}

			names := catalog.Names()
			if split {
				names = catalog.SplitNames()
			}

			for _, name := range names {
				fmt.Fprintln(a.stdout, name)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&split, "split", false, "Only chips that support split keyboards")
	cmd.Flags().BoolVar(&boards, "boards", false, "List boards and their chips")

	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		hwPath   string
		vialPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate keyboard.toml against vial.json",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, report, err := project.New(project.DefaultConfig(), a.logger).Check(hwPath, vialPath)
			if report == nil {
				return err
			}

			if asJSON {
				out, merr := json.MarshalIndent(report, "", "  ")
				if merr != nil {
					return merr
				}

				fmt.Fprintln(a.stdout, string(out))

				return err
			}

			printReport(a, report)

			return err
		},
	}

	cmd.Flags().StringVar(&hwPath, "keyboard-toml-path", "./keyboard.toml", "Path to keyboard.toml")
	cmd.Flags().StringVar(&vialPath, "vial-json-path", "./vial.json", "Path to vial.json")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

// printReport prints warnings or "ok". Conflicts reach the user through
// the returned error.
func printReport(a *app, r *diagnostic.Report) {
	switch {
	case r.HasConflicts():
	case len(r.Warnings) == 0:
		fmt.Fprintln(a.stdout, "ok")
	default:
		fmt.Fprint(a.stdout, r.String())
	}
}
