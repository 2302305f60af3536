// sv-symbols builds a symbol table from SystemVerilog sources, resolves
// identifier references, and reports the result as a definition dump,
// a reference dump, or validated JSON fact tables.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mtikekar/verible/internal/analysis"
	"github.com/mtikekar/verible/internal/diag"
	"github.com/mtikekar/verible/internal/facts"
	"github.com/mtikekar/verible/internal/project"
	"github.com/mtikekar/verible/internal/validator"
)

var (
	flagIncludeDirs []string
	flagConfig      string
	flagLocalOnly   bool
	flagVerbose     bool
)

func main() {
	root := &cobra.Command{
		Use:           "sv-symbols",
		Short:         "SystemVerilog symbol table and name resolution",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringArrayVarP(&flagIncludeDirs, "include-dir", "I", nil,
		"directory searched when resolving `include files (repeatable)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to an sv_project.json configuration file")
	root.PersistentFlags().BoolVar(&flagLocalOnly, "local-only", false,
		"resolve only trivially visible bindings, without upward search")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "symbols [file ...]",
			Short: "Print symbol definitions",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, diags, err := buildAndResolve(args)
				if err != nil {
					return err
				}
				st.PrintSymbolDefinitions(os.Stdout)
				reportDiagnostics(diags)
				return nil
			},
		},
		&cobra.Command{
			Use:   "refs [file ...]",
			Short: "Print references with their resolved targets",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, diags, err := buildAndResolve(args)
				if err != nil {
					return err
				}
				st.PrintSymbolReferences(os.Stdout)
				reportDiagnostics(diags)
				return nil
			},
		},
		&cobra.Command{
			Use:   "facts [file ...]",
			Short: "Export validated JSON fact tables",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, diags, err := buildAndResolve(args)
				if err != nil {
					return err
				}
				tables := facts.FromSymbolTable(st)

				v, err := validator.NewFactsValidator()
				if err != nil {
					return fmt.Errorf("creating facts validator: %w", err)
				}
				if errs := v.ValidationErrors(tables); errs != nil {
					for _, e := range errs {
						fmt.Fprintln(os.Stderr, e)
					}
					return fmt.Errorf("fact tables do not satisfy the schema contract")
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(tables); err != nil {
					return fmt.Errorf("encoding facts: %w", err)
				}
				reportDiagnostics(diags)
				return nil
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func loadConfig(rootPath string) (*project.Config, error) {
	if flagConfig != "" {
		return project.LoadFile(flagConfig)
	}
	return project.Load(rootPath)
}

// buildAndResolve runs the full pipeline: open the translation units
// (explicit arguments, or the config's files/file_patterns when none
// are given), parse, build the symbol table, then resolve references.
func buildAndResolve(args []string) (*analysis.SymbolTable, []diag.Diagnostic, error) {
	rootPath := "."
	if len(args) > 0 {
		rootPath = filepath.Dir(args[0])
	}
	cfg, err := loadConfig(rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	files := args
	if len(files) == 0 {
		files, err = cfg.TranslationUnits(rootPath)
		if err != nil {
			return nil, nil, err
		}
		if len(files) == 0 {
			return nil, nil, fmt.Errorf(
				"no input files: pass them as arguments or configure files/file_patterns")
		}
	}

	includeDirs := append([]string{}, cfg.IncludeDirs...)
	includeDirs = append(includeDirs, flagIncludeDirs...)
	// Files are opened relative to the working directory; the first
	// file's directory (or "." without arguments) is searched for
	// includes after the explicit dirs.
	includeDirs = append(includeDirs, rootPath)

	proj := project.New(".", includeDirs)
	for _, file := range files {
		if _, err := proj.OpenTranslationUnit(file); err != nil {
			return nil, nil, err
		}
	}

	st := analysis.NewSymbolTable(proj)
	diags := st.Build()
	if flagLocalOnly {
		st.ResolveLocallyOnly()
	} else {
		diags = append(diags, st.Resolve()...)
	}
	diags = append(diags, topModuleDiagnostics(st, cfg.Top)...)
	if err := st.CheckIntegrity(); err != nil {
		return nil, nil, fmt.Errorf("symbol table integrity: %w", err)
	}
	return st, diags, nil
}

// topModuleDiagnostics checks that every configured top-level module
// is declared and actually is a module.
func topModuleDiagnostics(st *analysis.SymbolTable, tops []string) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, name := range tops {
		node := st.Root().Find(name)
		if node == nil {
			diags = append(diags, diag.New(diag.CategoryUnresolvedUnqualified,
				"Top module %q is not declared by any translation unit.", name))
			continue
		}
		if node.Info.Metatype != analysis.KindModule {
			diags = append(diags, diag.New(diag.CategoryMetatypeMismatch,
				"Expecting top %q to be a module, but found a %s.",
				name, node.Info.Metatype))
		}
	}
	return diags
}

func reportDiagnostics(diags []diag.Diagnostic) {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s %s\n", warn("["+d.Category.String()+"]"), d.Message)
	}
	if len(diags) > 0 {
		fmt.Fprintf(os.Stderr, "%d diagnostic(s)\n", len(diags))
	}
}
