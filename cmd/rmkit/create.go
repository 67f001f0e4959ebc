package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rmkit/internal/project"
	"rmkit/internal/wizard"
)

// templateFlags select the template overlay and output policy.
type templateFlags struct {
	targetDir string
	force     bool
	version   string
	repo      string
	localPath string
	offline   bool
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.targetDir, "target-dir", "", "Output directory (defaults to the project name)")
	cmd.Flags().BoolVar(&f.force, "force", false, "Write into a non-empty target directory")
	cmd.Flags().StringVar(&f.version, "version", "", "RMK version; pins the template and the rmk dependency")
	cmd.Flags().StringVar(&f.repo, "template-repo", "", "Template repository as owner/repo")
	cmd.Flags().StringVar(&f.localPath, "local-path", "", "Use a local template directory instead of the remote repository")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "Render built-in templates only")
}

// pipeline builds the project pipeline for the current configuration and
// flags.
func (f *templateFlags) pipeline(ctx context.Context, a *app) (*project.Pipeline, error) {
	tc := a.cfg.Template

	if f.repo != "" {
		owner, repo, ok := strings.Cut(f.repo, "/")
		if !ok || owner == "" || repo == "" {
			return nil, fmt.Errorf("--template-repo %q is not owner/repo", f.repo)
		}

		tc.Owner, tc.Repo = owner, repo
	}

	if f.localPath != "" {
		tc.LocalPath = f.localPath
	}

	tc.Offline = tc.Offline || f.offline

	pc := project.DefaultConfig()
	if f.version != "" {
		pc.Gen.RMKVersion = f.version
	}

	src := project.TemplateSource(ctx, tc, f.version, a.logger)

	return project.New(pc, a.logger, project.WithTemplates(src)), nil
}

func (f *templateFlags) options(a *app) project.Options {
	return project.Options{TargetDir: f.targetDir, Overwrite: f.force || a.cfg.Emit.Overwrite}
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		flags    templateFlags
		hwPath   string
		vialPath string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project from keyboard.toml and vial.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := flags.pipeline(cmd.Context(), a)
			if err != nil {
				return err
			}

			res, err := p.CreateFromFiles(cmd.Context(), hwPath, vialPath, flags.options(a))
			if err != nil {
				printPartial(a, res)
				return err
			}

			if res.Diagnostics != nil {
				for _, w := range res.Diagnostics.Warnings {
					fmt.Fprintln(a.stderr, "warning:", w.String())
				}
			}

			return report(a, res)
		},
	}

	cmd.Flags().StringVar(&hwPath, "keyboard-toml-path", "./keyboard.toml", "Path to keyboard.toml")
	cmd.Flags().StringVar(&vialPath, "vial-json-path", "./vial.json", "Path to vial.json")
	flags.register(cmd)

	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	var (
		flags       templateFlags
		projectName string
		chipName    string
		split       bool
		row2col     bool
		answersPath string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project by answering questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var prompter wizard.Prompter

			switch {
			case answersPath != "":
				answers, err := wizard.LoadAnswerFile(answersPath)
				if err != nil {
					return err
				}

				prompter = wizard.NewScriptedPrompter(answers)
			case a.interactive():
				tp := wizard.NewTerminalPrompter(a.stdin, a.stdout)
				defer tp.Close()

				prompter = tp
			default:
				return fmt.Errorf("init needs a terminal or --answers")
			}

			p, err := flags.pipeline(cmd.Context(), a)
			if err != nil {
				return err
			}

			s := p.NewSession()

			if cmd.Flags().Changed("project-name") {
				s.Preset(wizard.QProjectName, projectName)
			}

			if cmd.Flags().Changed("chip") {
				s.Preset(wizard.QChip, chipName)
			}

			if cmd.Flags().Changed("split") {
				s.Preset(wizard.QSplit, yesNo(split))
			}

			if cmd.Flags().Changed("row2col") {
				s.Preset(wizard.QRow2Col, yesNo(row2col))
			}

			res, err := p.CreateInteractive(cmd.Context(), s, prompter, flags.options(a))
			if err != nil {
				printPartial(a, res)
				return err
			}

			return report(a, res)
		},
	}

	cmd.Flags().StringVar(&projectName, "project-name", "", "Project name")
	cmd.Flags().StringVar(&chipName, "chip", "", "Chip or board name")
	cmd.Flags().BoolVar(&split, "split", false, "Split keyboard")
	cmd.Flags().BoolVar(&row2col, "row2col", false, "Diodes point from rows to columns")
	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML answer file for non-interactive use")
	flags.register(cmd)

	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func report(a *app, res *project.Result) error {
	fmt.Fprintf(a.stdout, "Created %s in %s (%d files)\n", res.Model.ProjectName, res.Emit.Target, len(res.Emit.Written))
	return nil
}

// printPartial lists what an interrupted emission left behind. Runs that
// failed before writing print nothing.
func printPartial(a *app, res *project.Result) {
	if res == nil || res.Emit == nil || res.Emit.Complete() {
		return
	}

	r := res.Emit
	if len(r.Written) == 0 && len(r.Failed) == 0 {
		return
	}

	fmt.Fprintf(a.stderr, "emission into %s stopped\n", r.Target)

	fmt.Fprintf(a.stderr, "written (%d):\n", len(r.Written))
	for _, p := range r.Written {
		fmt.Fprintln(a.stderr, "  "+p)
	}

	fmt.Fprintf(a.stderr, "failed (%d):\n", len(r.Failed))
	for _, f := range r.Failed {
		fmt.Fprintf(a.stderr, "  %s: %v\n", f.Path, f.Err)
	}

	fmt.Fprintf(a.stderr, "not written (%d):\n", len(r.Pending))
	for _, p := range r.Pending {
		fmt.Fprintln(a.stderr, "  "+p)
	}
}
