// build-kb validates fact files against the predicate schema and
// appends them to a persistent BadgerDB knowledge base. The base is
// then queried with privalog -db.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/wbrown/privalog/config"
	"github.com/wbrown/privalog/kb/storage"
)

func main() {
	var dbPath string
	var schemaPath string
	var factPaths string
	var augPaths string

	flag.StringVar(&dbPath, "db", "", "path of the knowledge base to create or extend (required)")
	flag.StringVar(&schemaPath, "schema", "", "predicate schema YAML (default: built-in schema)")
	flag.StringVar(&factPaths, "facts", "", "comma-separated base fact files (default: built-in facts)")
	flag.StringVar(&augPaths, "aug", "", "comma-separated augmentation fact files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -db <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Builds a persistent knowledge base from fact files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if dbPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Loading through the config loader validates the whole fact base
	// against the schema before anything is persisted.
	loader := &config.Loader{
		SchemaPath:   schemaPath,
		FactPaths:    splitPaths(factPaths),
		AugmentPaths: splitPaths(augPaths),
	}
	comp, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load facts: %v", err)
	}

	bs, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open knowledge base: %v", err)
	}
	defer bs.Close()

	added, err := bs.Append(comp.Store.All())
	if err != nil {
		log.Fatalf("Failed to persist facts: %v", err)
	}

	total, err := bs.Len()
	if err != nil {
		log.Fatalf("Failed to count facts: %v", err)
	}
	fmt.Printf("Persisted %d new facts (%d already present), %d total in %s.\n",
		added, comp.Store.Len()-added, total, dbPath)
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
