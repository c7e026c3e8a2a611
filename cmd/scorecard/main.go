package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-scorecard"
	"github.com/goliatone/go-scorecard/internal/config"
	"github.com/goliatone/go-scorecard/pkg/state"
	"github.com/goliatone/go-scorecard/pkg/tui"
	"github.com/goliatone/go-scorecard/schema/openapi"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	configPath string
	engineFlag string
	formatFlag string
	dataPath   string
	openAPI    bool
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Edit Scorecard widget settings files",
	Long:  `scorecard reads a widget settings file (YAML or JSON), edits it through the same editor a dashboard uses, and writes it back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if engineFlag != "" {
			loaded.Editor.Engine = engineFlag
		}
		if formatFlag != "" {
			loaded.Output.Format = formatFlag
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Open the interactive settings editor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session, err := openSession(ctx, args[0])
		if err != nil {
			fail("Failed to load %s: %v", args[0], err)
		}

		model := tui.NewEditorModel(ctx, session.editor, func(*scorecard.Editor) error {
			return session.save(ctx)
		})
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fail("Failed to start the terminal user interface: %v", err)
		}
		if model.Dirty() {
			fmt.Fprintf(os.Stderr, "Unsaved changes to %s were discarded.\n", args[0])
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the form for the current mode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session, err := openSession(context.Background(), args[0])
		if err != nil {
			fail("Failed to load %s: %v", args[0], err)
		}
		emit(session.editor.Form())
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <path> <value>",
	Short: "Change one setting and save the file",
	Long:  `Sets a dotted path such as size.w or dependencies.card_alpha_value. Writes under a missing parent are dropped, as in the interactive editor.`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session, err := openSession(ctx, args[0])
		if err != nil {
			fail("Failed to load %s: %v", args[0], err)
		}
		if err := session.editor.OnChange(ctx, args[1], parseValue(args[1], args[2])); err != nil {
			fail("Failed to notify change hooks: %v", err)
		}
		if err := session.save(ctx); err != nil {
			fail("Failed to save %s: %v", args[0], err)
		}
		fmt.Printf("✓ %s updated\n", args[1])
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Resolve bindings against a data file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		session, err := openSession(ctx, args[0])
		if err != nil {
			fail("Failed to load %s: %v", args[0], err)
		}
		var data map[string]any
		if dataPath != "" {
			data, err = state.ReadFile[map[string]any](dataPath)
			if err != nil {
				fail("Failed to read data %s: %v", dataPath, err)
			}
		}
		view, err := session.editor.Preview(ctx, data)
		if view != nil {
			emit(view)
		}
		if err != nil {
			fail("Some bindings failed: %v", err)
		}
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Print the schema describing the editable fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var opts []scorecard.Option
		if openAPI {
			opts = append(opts, openapi.Option())
		}
		session, err := openSession(context.Background(), args[0], opts...)
		if err != nil {
			fail("Failed to load %s: %v", args[0], err)
		}
		doc, err := session.editor.Schema()
		if err != nil {
			fail("Failed to generate schema: %v", err)
		}
		emit(doc)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scorecard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scorecard version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/scorecard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&engineFlag, "engine", "", "binding evaluator: expr, cel or js")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "output format: yaml or json")
	previewCmd.Flags().StringVar(&dataPath, "data", "", "YAML or JSON file the bindings resolve against")
	schemaCmd.Flags().BoolVar(&openAPI, "openapi", false, "emit an OpenAPI document instead of field descriptors")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func emit(value any) {
	tree, err := jsonTree(value)
	if err != nil {
		fail("Failed to encode output: %v", err)
	}
	raw, err := state.Encode(tree, outputFormat(cfg))
	if err != nil {
		fail("Failed to encode output: %v", err)
	}
	os.Stdout.Write(raw)
}
