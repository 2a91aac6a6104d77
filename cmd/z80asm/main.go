// Command z80asm is a thin wrapper around the assembler core: it reads a
// source file, calls assembler.Assemble, and writes the resulting byte
// image plus an optional symbol-table listing.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cschweda/z80-assembler/assembler"
	"github.com/cschweda/z80-assembler/config"
	"github.com/cschweda/z80-assembler/format"
)

var asmLog = log.New(io.Discard, "z80asm: ", log.LstdFlags)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		outPath     = flag.String("o", "", "Output file path (default: <input>.bin, or <input>.hex for intelhex)")
		showSymbols = flag.Bool("symbols", false, "Print the symbol table")
		outFormat   = flag.String("format", "bin", "Output format: bin or intelhex")
		configPath  = flag.String("config", "", "Path to a TOML config file")
		verbose     = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("z80asm %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if *verbose {
		asmLog.SetOutput(os.Stderr)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFrom(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *outFormat == "bin" && cfg.Output.Format != "" {
		*outFormat = cfg.Output.Format
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: z80asm [flags] <source.asm>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	srcPath := flag.Arg(0)

	asmLog.Printf("reading source file: %s", srcPath)
	src, err := os.ReadFile(srcPath) // #nosec G304 -- user-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", srcPath, err)
		os.Exit(1)
	}

	result := assembler.AssembleBytes(src)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e.String())
	}
	if !result.Success {
		os.Exit(1)
	}
	asmLog.Printf("assembled %d bytes starting at %#04x", len(result.Bytes), result.StartAddress)

	var out []byte
	switch *outFormat {
	case "bin":
		out = format.Binary(result.Bytes)
	case "intelhex":
		hex, err := format.IntelHex(result.Bytes, result.StartAddress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting Intel HEX output: %v\n", err)
			os.Exit(1)
		}
		out = []byte(hex)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q (want bin or intelhex)\n", *outFormat)
		os.Exit(1)
	}

	dest := *outPath
	if dest == "" {
		dest = srcPath + defaultExtension(*outFormat)
	}
	if err := os.WriteFile(dest, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", dest, err)
		os.Exit(1)
	}
	asmLog.Printf("wrote %s", dest)

	if *showSymbols || cfg.Output.EmitSymbols {
		fmt.Print(format.SymbolListing(result.Symbols))
	}
}

func defaultExtension(outFmt string) string {
	if outFmt == "intelhex" {
		return ".hex"
	}
	return ".bin"
}
