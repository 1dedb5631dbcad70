// Command provexpand is a minimal CLI wrapper around the provtemplate
// engine: read a template and a bindings file, expand, write the result.
// It is a collaborator demonstration, not part of the core (spec.md §1);
// real PROV serialisation and a production bindings extractor are left to
// callers, per spec.md §6.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/openprovenance/provtemplate"
	"github.com/openprovenance/provtemplate/bindings"
	"github.com/openprovenance/provtemplate/prov"
)

func main() {
	templatePath := flag.String("i", "", "path to the template document (internal line format)")
	bindingsPath := flag.String("b", "", "path to the bindings file")
	outputPath := flag.String("o", "", "path to write the expanded document")
	jsonV3 := flag.Bool("3", false, "treat the bindings file as JSON v3 (default: PROV-bindings document)")
	mintCachePath := flag.String("mint-cache", "", "optional path to a durable SQLite vargen: mint cache")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if *templatePath == "" || *bindingsPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: provexpand -i template -b bindings -o output [-3] [-mint-cache path]")
		os.Exit(2)
	}

	if err := run(*templatePath, *bindingsPath, *outputPath, *jsonV3, *mintCachePath); err != nil {
		slog.Error("expansion failed", "error", err)
		os.Exit(1)
	}
}

func run(templatePath, bindingsPath, outputPath string, jsonV3 bool, mintCachePath string) error {
	templateFile, err := os.Open(templatePath)
	if err != nil {
		return fmt.Errorf("opening template: %w", err)
	}
	defer templateFile.Close()

	tmpl, err := ParseDocument(templateFile)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	store, err := readBindings(tmpl, bindingsPath, jsonV3)
	if err != nil {
		return fmt.Errorf("reading bindings: %w", err)
	}

	cfg := provtemplate.DefaultConfig()
	cfg.MintCachePath = mintCachePath

	out, err := provtemplate.Expand(tmpl, store, cfg)
	if err != nil {
		return fmt.Errorf("expanding template: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()

	if err := WriteDocument(outFile, out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	slog.Info("expansion complete",
		"template", templatePath, "bindings", bindingsPath, "output", outputPath,
		"elements", len(out.Elements()), "relations", len(out.Relations()))
	return nil
}

func readBindings(tmpl *prov.Document, bindingsPath string, jsonV3 bool) (*bindings.Store, error) {
	raw, err := os.ReadFile(bindingsPath)
	if err != nil {
		return nil, err
	}

	if jsonV3 {
		store, merged, err := provtemplate.ReadBindingsJSONV3(raw, tmpl.Namespaces)
		if err != nil {
			return nil, err
		}
		tmpl.Namespaces = merged
		return store, nil
	}

	bindingsFile, err := os.Open(bindingsPath)
	if err != nil {
		return nil, err
	}
	defer bindingsFile.Close()

	bindingsDoc, err := ParseDocument(bindingsFile)
	if err != nil {
		return nil, err
	}
	return provtemplate.ReadBindingsProvDoc(bindingsDoc)
}
