package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"go4example/internal/config"
	"go4example/internal/crawler"
	"go4example/internal/lint"
	"go4example/pkg/example"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs once flags are parsed.
type app struct {
	fs         afero.Fs
	configPath string
	logLevel   string
	logger     *log.Logger
	cfg        *config.Config
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	rootCmd := &cobra.Command{
		Use:          "go4example",
		Short:        "Markdown documentation from runnable Go examples",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (YAML or TOML); defaults to go4example.yaml in the working directory")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(a.snippetCmd())
	rootCmd.AddCommand(a.pageCmd())
	rootCmd.AddCommand(a.lintCmd())
	rootCmd.AddCommand(a.previewCmd())
	rootCmd.AddCommand(a.configCmd())
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "go4example", Level: level})

	// Links fall back to the enclosing git repository.
	if err := cfg.FillFromGit("."); err != nil {
		a.logger.Debug("no git metadata", "err", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) newDoc() (*example.Doc, error) {
	opts := append([]example.DocOption{example.WithLogger(a.logger)}, a.cfg.DocOptions()...)
	return example.New(a.cfg.Repo(), opts...)
}

func (a *app) snippetCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "snippet FILE MARKER",
		Short: "Print the region of FILE between two lines containing MARKER as a code block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.newDoc()
			if err != nil {
				return err
			}
			opts := append(a.cfg.BlockOptions(), example.Type(typ))
			if err := d.ExampleFromSnippet(args[0], args[1], opts...); err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), d.String())
			return err
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "go", "Fence type of the code block")
	return cmd
}

func (a *app) pageCmd() *cobra.Command {
	var (
		outDir    string
		fileName  string
		titleCase bool
	)
	cmd := &cobra.Command{
		Use:   "page TITLE FILE",
		Short: "Wrap a markdown fragment into a page with a title heading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			if titleCase {
				title = cases.Title(language.English).String(title)
			}
			fragment, err := afero.ReadFile(a.fs, args[1])
			if err != nil {
				return fmt.Errorf("read fragment: %w", err)
			}
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}
			page := example.Page{Title: title, OutputDir: outDir, FileName: fileName}
			if err := page.Write(a.fs, string(fragment)); err != nil {
				return err
			}
			a.logger.Info("page written", "title", title, "path", page.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "📄 %s\n", page.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory; defaults to output.dir from the config")
	cmd.Flags().StringVar(&fileName, "file-name", "", "File name; defaults to the slug of the title")
	cmd.Flags().BoolVar(&titleCase, "title-case", false, "Capitalize the words of the title")
	return cmd
}

func (a *app) lintCmd() *cobra.Command {
	var ignore []string
	cmd := &cobra.Command{
		Use:   "lint [PATH]",
		Short: "Check that code blocks in markdown files fit the line length",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			linter := lint.New(a.cfg.FormatOptions(), a.logger)
			issues, err := linter.Run(path, crawler.NewCrawler().Ignore(ignore...))
			if err != nil {
				return err
			}
			for _, issue := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d code lines exceed %d columns", len(issues), a.cfg.Format.LineLength)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ All code blocks fit.")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Additional directory names to skip")
	return cmd
}

func (a *app) previewCmd() *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render a markdown file for the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := afero.ReadFile(a.fs, args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", filepath.Base(args[0]), err)
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(style),
				glamour.WithWordWrap(a.cfg.Format.LineLength),
			)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			out, err := r.Render(string(src))
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "Glamour style: dark, light, notty, ascii, ...")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			if a.cfg.Source != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# from %s\n", a.cfg.Source)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
