package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/wbrown/privalog/config"
	"github.com/wbrown/privalog/kb"
	"github.com/wbrown/privalog/kb/annotations"
	"github.com/wbrown/privalog/kb/parser"
	"github.com/wbrown/privalog/kb/storage"
	"github.com/wbrown/privalog/report"
)

func main() {
	var schemaPath string
	var queriesPath string
	var factPaths string
	var augPaths string
	var dbPath string
	var interactive bool
	var verbose bool
	var queryStr string
	var checkStr string
	var help bool

	flag.StringVar(&schemaPath, "schema", "", "predicate schema YAML (default: built-in schema)")
	flag.StringVar(&queriesPath, "queries", "", "named queries YAML (default: built-in queries)")
	flag.StringVar(&factPaths, "facts", "", "comma-separated base fact files (default: built-in facts)")
	flag.StringVar(&augPaths, "aug", "", "comma-separated augmentation fact files")
	flag.StringVar(&dbPath, "db", "", "load base facts from a persistent knowledge base (see build-kb)")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode (show resolution trace)")
	flag.StringVar(&queryStr, "query", "", "run a single goal and exit")
	flag.StringVar(&checkStr, "check", "", "validate a single formula and exit")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A logical query engine over a privacy-policy fact base.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run the named queries on the built-in KB\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -facts kb.pl -aug kb_aug.pl      # Run with your own fact files\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -db policy.kb                    # Run against a persistent KB\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query 'collects(google, X)'     # Run a single goal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -check 'not(collects(google, X))' # Validate a formula\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i -verbose                      # Interactive mode with a trace\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	loader := &config.Loader{
		SchemaPath:   schemaPath,
		QueriesPath:  queriesPath,
		FactPaths:    splitPaths(factPaths),
		AugmentPaths: splitPaths(augPaths),
	}

	if dbPath != "" {
		bs, err := storage.Open(dbPath)
		if err != nil {
			log.Fatalf("Failed to open knowledge base: %v", err)
		}
		facts, err := bs.All()
		bs.Close()
		if err != nil {
			log.Fatalf("Failed to read knowledge base: %v", err)
		}
		loader.FactList = facts
	}

	comp, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	var handler annotations.Handler
	if verbose {
		formatter := annotations.NewOutputFormatter(os.Stderr)
		handler = formatter.Handle
	}

	engine := newEngine(comp.Store, handler)

	switch {
	case checkStr != "":
		runCheck(comp.Validator, checkStr)
	case queryStr != "":
		runSingleGoal(engine, comp.Validator, queryStr)
	case interactive:
		runInteractive(comp, engine)
	default:
		runNamedQueries(comp, engine)
	}
}

func newEngine(store *kb.Store, handler annotations.Handler) *kb.Engine {
	if handler != nil {
		return kb.NewEngineWithHandler(store, handler)
	}
	return kb.NewEngine(store)
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

// runNamedQueries executes the fixed query set and prints the answers
// report plus the mapping table.
func runNamedQueries(comp *config.Components, engine *kb.Engine) {
	fmt.Printf("Loaded KB: %d facts (%d base, %d offered by augmentation), %d predicates.\n",
		comp.Store.Len(), comp.BaseCount, comp.AugmentCount, comp.Registry.Len())

	answers := make([]report.Answer, 0, len(comp.Queries))
	for _, q := range comp.Queries {
		result, err := engine.Solve(q.Goal)
		if err != nil {
			log.Fatalf("Query %s failed: %v", q.ID, err)
		}
		answers = append(answers, report.Answer{ID: q.ID, Question: q.Question, Result: result})
	}

	fmt.Print(report.Lines(answers))

	fmt.Println("\nQuestion -> Goal mapping:")
	formatter := report.NewTableFormatter()
	fmt.Println(formatter.FormatMapping(answers))
}

func runSingleGoal(engine *kb.Engine, validator *kb.Validator, goalStr string) {
	goal, err := parser.ParseGoal(goalStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}
	if !validator.ValidGoal(goal) {
		fmt.Fprintln(os.Stderr, "Goal is not well-formed against the schema.")
		os.Exit(1)
	}

	result, err := engine.Solve(goal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		os.Exit(1)
	}

	formatter := report.NewTableFormatter()
	fmt.Println(formatter.FormatResult(result))
}

func runCheck(validator *kb.Validator, formulaStr string) {
	f, err := parser.ParseFormula(formulaStr)
	if err != nil {
		// Unparseable input is an invalid formula, not a crash.
		fmt.Println("invalid")
		os.Exit(1)
	}
	if validator.Valid(f) {
		fmt.Println("valid")
		return
	}
	fmt.Println("invalid")
	os.Exit(1)
}

func runInteractive(comp *config.Components, engine *kb.Engine) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println("=== Privalog Interactive Mode ===")
	fmt.Println("Commands:")
	fmt.Println("  .help            - Show help")
	fmt.Println("  .exit            - Exit")
	fmt.Println("  .stats           - Knowledge base summary")
	fmt.Println("  .schema          - List registered predicates")
	fmt.Println("  .facts <pred>    - List facts for a predicate")
	fmt.Println("  .check <formula> - Validate a formula")
	fmt.Println("  <goal>           - Solve a conjunctive goal")
	fmt.Println()

	formatter := report.NewTableFormatter()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case line == ".exit":
			return

		case line == ".help":
			fmt.Println("Enter a conjunctive goal like: collects(google, X), uses_for(google, P)")
			fmt.Println("Upper-case initial identifiers are variables.")

		case line == ".stats":
			printStats(comp)

		case line == ".schema":
			for _, name := range comp.Registry.Predicates() {
				arity, _ := comp.Registry.ArityOf(name)
				fmt.Printf("  %s/%d\n", name, arity)
			}

		case strings.HasPrefix(line, ".facts"):
			pred := strings.TrimSpace(strings.TrimPrefix(line, ".facts"))
			if pred == "" {
				fmt.Println("Usage: .facts <predicate>")
				continue
			}
			facts := comp.Store.FactsFor(pred)
			if len(facts) == 0 {
				fmt.Println("No facts.")
				continue
			}
			for _, f := range facts {
				fmt.Printf("  %s.\n", f)
			}

		case strings.HasPrefix(line, ".check"):
			input := strings.TrimSpace(strings.TrimPrefix(line, ".check"))
			f, err := parser.ParseFormula(input)
			if err != nil || !comp.Validator.Valid(f) {
				fmt.Println(red("invalid"))
				continue
			}
			fmt.Println(green("valid"))

		case strings.HasPrefix(line, "."):
			fmt.Println("Unknown command. Use .help for help.")

		default:
			goal, err := parser.ParseGoal(line)
			if err != nil {
				fmt.Printf("Parse error: %v\n", err)
				continue
			}
			result, err := engine.Solve(goal)
			if err != nil {
				fmt.Printf("Execution error: %v\n", err)
				continue
			}
			fmt.Println(formatter.FormatResult(result))
		}
	}
}

func printStats(comp *config.Components) {
	fmt.Printf("Facts: %d (%d base, %d offered by augmentation)\n",
		comp.Store.Len(), comp.BaseCount, comp.AugmentCount)
	fmt.Printf("Predicates: %d\n", comp.Registry.Len())
	fmt.Printf("Named queries: %d\n", len(comp.Queries))

	counts := comp.Store.CountByPredicate()
	preds := make([]string, 0, len(counts))
	for pred := range counts {
		preds = append(preds, pred)
	}
	sort.Strings(preds)
	for _, pred := range preds {
		fmt.Printf("  %-26s %d\n", pred, counts[pred])
	}
}
