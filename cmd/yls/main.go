package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.lsp.dev/jsonrpc2"

	"github.com/yamlnext/yls/pkg/cli"
	"github.com/yamlnext/yls/pkg/console"
	"github.com/yamlnext/yls/pkg/constants"
	"github.com/yamlnext/yls/pkg/schema"
	"github.com/yamlnext/yls/pkg/server"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var verbose bool

var rootCmd = &cobra.Command{
	Use:   constants.BinaryName,
	Short: "YAML document/schema engine and language service",
	Long: constants.BinaryName + ` validates YAML documents against a schema graph.

A schema graph is a tree of named definitions, each declaring an accepted
value type and its allowed child keys. The engine parses documents into a
position-indexed AST, matches every node against the graph, and reports
unknown keys, misplaced keys, and type mismatches as warnings.

Run 'check' for one-shot validation of files, or 'serve' to speak LSP
over stdio and publish diagnostics to an editor.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [files or directories]",
	Short: "Validate YAML files against a schema graph",
	Long: `Validate YAML files against a schema graph and print diagnostics.

Examples:
  ` + constants.BinaryName + ` check deploy.yaml
  ` + constants.BinaryName + ` check manifests/ --schema k8s-graph.yaml
  ` + constants.BinaryName + ` check deploy.yaml --watch`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schemaPath, _ := cmd.Flags().GetString("schema")
		jsonSchemaPath, _ := cmd.Flags().GetString("json-schema")
		watch, _ := cmd.Flags().GetBool("watch")

		files, err := cli.ExpandPaths(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
		checker, err := cli.NewChecker(schemaPath, jsonSchemaPath, verbose)
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}

		if watch {
			if err := checker.Watch(files); err != nil {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
				os.Exit(1)
			}
			return
		}
		if err := checker.CheckFiles(files); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server over stdio",
	Long: `Run the language server over stdio.

The server implements textDocument synchronization and publishes parse
and schema diagnostics on every change. Wire it into an editor as the
command for YAML files:

  ` + constants.BinaryName + ` serve --schema k8s-graph.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		schemaPath, _ := cmd.Flags().GetString("schema")
		graph, err := schema.LoadGraph(schemaPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}

		logger := log.New(os.Stderr, "["+constants.BinaryName+"] ", log.LstdFlags)
		server.Version = version
		srv := server.New(graph, logger)
		stream := jsonrpc2.NewStream(server.Stdio())
		if err := srv.Serve(context.Background(), stream); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.BinaryName, version)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")

	checkCmd.Flags().StringP("schema", "s", constants.DefaultSchemaFile, "Path to the schema graph file")
	checkCmd.Flags().String("json-schema", "", "Optional JSON Schema file for structural validation of document roots")
	checkCmd.Flags().BoolP("watch", "w", false, "Watch files and revalidate on change")

	serveCmd.Flags().StringP("schema", "s", constants.DefaultSchemaFile, "Path to the schema graph file")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
