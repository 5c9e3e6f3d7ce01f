// Command bonsai builds and benchmarks the DCW and PR compact dynamic
// tries against a file of newline-delimited keys, mirroring the original
// bonsais.cpp benchmark driver.
//
// Usage:
//
//	bonsai <keys_file>
//	    Print the exact trie node count implied by the key set.
//
//	bonsai [flags] <keys_file> <queries_file|-> <type> <num_nodes> <load_factor> <colls_bits>
//	    Build the named engine ("dcw"/"1" or "pr"/"2"), insert every key,
//	    optionally search every query, and print timing plus show_stat.
//
//	bonsai [flags] query <keys_file> <type>
//	    Build the named engine from keys_file, then open an interactive
//	    insert/search shell.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kampersanda/bonsaigo/internal/config"
	"github.com/kampersanda/bonsaigo/internal/keyio"
	"github.com/kampersanda/bonsaigo/internal/nodecount"
	"github.com/kampersanda/bonsaigo/internal/replshell"
	"github.com/kampersanda/bonsaigo/internal/stats"
	"github.com/kampersanda/bonsaigo/pkg/trie"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("bonsai", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(errOut)

	configPath := fs.StringP("config", "c", "", "Engine configuration file (HuJSON)")
	reportPath := fs.StringP("report", "r", "", "Write a benchmark report to `file`")
	reportFormat := fs.String("format", "md", "Report format: md or yaml")
	help := fs.BoolP("help", "h", false, "Show help")

	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	if *help {
		printUsage(out)
		return 0
	}

	rest := fs.Args()

	if len(rest) == 0 {
		printUsage(errOut)
		return 2
	}

	if rest[0] == "query" {
		return runQuery(rest[1:], *configPath, out, errOut)
	}

	if len(rest) == 1 {
		return runCountNodes(rest[0], out, errOut)
	}

	if len(rest) == 6 {
		return runBenchmark(rest, *configPath, *reportPath, *reportFormat, out, errOut)
	}

	printUsage(errOut)
	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bonsai <keys_file>")
	fmt.Fprintln(w, "  bonsai [flags] <keys_file> <queries_file|-> <type> <num_nodes> <load_factor> <colls_bits>")
	fmt.Fprintln(w, "  bonsai [flags] query <keys_file> <type>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <file>   Engine configuration file (HuJSON)")
	fmt.Fprintln(w, "  -r, --report <file>   Write a benchmark report to file")
	fmt.Fprintln(w, "      --format md|yaml  Report format (default md)")
	fmt.Fprintln(w, "  -h, --help            Show this help")
}

func runCountNodes(keysFile string, out, errOut io.Writer) int {
	n, err := nodecount.CountFile(keysFile)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "#nodes: %d\n", n)
	return 0
}

func parseEngineKind(s string) (config.EngineKind, error) {
	switch strings.ToLower(s) {
	case "1", "dcw":
		return config.DCW, nil
	case "2", "pr":
		return config.PR, nil
	default:
		return "", fmt.Errorf("unknown engine type %q (expected dcw/1 or pr/2)", s)
	}
}

func buildEngine(kind config.EngineKind, cfg config.Config, numSlots uint64) (trie.Engine, error) {
	switch kind {
	case config.DCW:
		return trie.NewDCWEngine(numSlots, cfg.AlpSize, cfg.CollsBits)
	case config.PR:
		return trie.NewPREngine(numSlots, cfg.AlpSize, cfg.WidthFirst)
	default:
		return nil, fmt.Errorf("unknown engine type %q", kind)
	}
}

func engineName(kind config.EngineKind) string {
	switch kind {
	case config.DCW:
		return "DCWEngine"
	case config.PR:
		return "PREngine"
	default:
		return string(kind)
	}
}

func runBenchmark(positional []string, configPath, reportPath, reportFormat string, out, errOut io.Writer) int {
	keysFile, queriesFile, typeArg, numNodesArg, loadFactorArg, collsBitsArg := positional[0], positional[1], positional[2], positional[3], positional[4], positional[5]

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	kind, err := parseEngineKind(typeArg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	cfg.Engine = kind

	numNodes, err := strconv.ParseUint(numNodesArg, 10, 64)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid num_nodes %q: %v\n", numNodesArg, err)
		return 1
	}

	loadFactor, err := strconv.ParseFloat(loadFactorArg, 64)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid load_factor %q: %v\n", loadFactorArg, err)
		return 1
	}
	cfg.LoadFactor = loadFactor

	collsBits, err := strconv.ParseUint(collsBitsArg, 10, 8)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid colls_bits %q: %v\n", collsBitsArg, err)
		return 1
	}
	cfg.CollsBits = uint8(collsBits)
	cfg.WidthFirst = uint8(collsBits)

	engine, err := buildEngine(kind, cfg, cfg.NumSlots(numNodes))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "----- %s -----\n", engineName(kind))

	reader, err := keyio.Open(keysFile)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	insertSw := stats.NewStopWatch()
	for {
		key, ok := reader.Next()
		if !ok {
			break
		}
		if _, err := engine.Insert(append([]byte(key), 0)); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			reader.Close()
			return 1
		}
	}
	if err := reader.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		reader.Close()
		return 1
	}
	reader.Close()

	insertNsPerKey := insertSw.Micros() * 1000 / float64(engine.NumStrs())
	fmt.Fprintf(out, "insert time: %.2f (ns/key)\n", insertNsPerKey)

	var searchNsPerKey float64
	var numOK, numNG uint64

	if queriesFile != "-" {
		queries, err := keyio.ReadAll(queriesFile)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return 1
		}

		searchSw := stats.NewStopWatch()
		for _, q := range queries {
			found, err := engine.Search(append([]byte(q), 0))
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return 1
			}
			if found {
				numOK++
			} else {
				numNG++
			}
		}

		fmt.Fprintf(out, "OK: %d, NG: %d\n", numOK, numNG)
		if len(queries) > 0 {
			searchNsPerKey = searchSw.Micros() * 1000 / float64(len(queries))
			fmt.Fprintf(out, "search time: %.2f (ns/key)\n", searchNsPerKey)
		}
	}

	var showStat strings.Builder
	if err := engine.ShowStat(&showStat); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	fmt.Fprint(out, showStat.String())

	if reportPath != "" {
		cpu, _ := stats.CPUSeconds()
		report := stats.Report{
			EngineName:      engineName(kind),
			NumKeys:         engine.NumStrs(),
			InsertNanosPerK: insertNsPerKey,
			SearchNanosPerK: searchNsPerKey,
			NumOK:           numOK,
			NumNG:           numNG,
			CPUSeconds:      cpu,
			ShowStat:        showStat.String(),
			GeneratedAt:     time.Now(),
		}

		var writeErr error
		switch strings.ToLower(reportFormat) {
		case "yaml":
			writeErr = report.WriteYAML(reportPath)
		default:
			writeErr = report.WriteMarkdown(reportPath)
		}

		if writeErr != nil {
			fmt.Fprintf(errOut, "error: %v\n", writeErr)
			return 1
		}
	}

	return 0
}

func runQuery(positional []string, configPath string, out, errOut io.Writer) int {
	if len(positional) != 2 {
		fmt.Fprintln(errOut, "usage: bonsai [flags] query <keys_file> <type>")
		return 2
	}

	keysFile, typeArg := positional[0], positional[1]

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	kind, err := parseEngineKind(typeArg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	cfg.Engine = kind

	keys, err := keyio.ReadAll(keysFile)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	engine, err := buildEngine(kind, cfg, cfg.NumSlots(nodecount.Count(keys)))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	for _, key := range keys {
		if _, err := engine.Insert(append([]byte(key), 0)); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return 1
		}
	}

	shell := replshell.New(engine, out)
	if err := shell.Run(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	return 0
}
