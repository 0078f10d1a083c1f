package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/xmldom"
	xmldomerrors "github.com/jacoelho/xmldom/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmlfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pretty := fs.Bool("pretty", false, "pretty-print with indentation")
	sortAll := fs.Bool("sort", false, "canonicalize attributes and sibling order")
	sortAttrs := fs.Bool("sort-attrs", false, "canonicalize attribute order only")
	indent := fs.Int("indent", 2, "spaces per nesting level (pretty mode)")
	width := fs.Int("width", 120, "soft wrap threshold for attribute lists (pretty mode)")
	hex := fs.Bool("hex", false, "use hex character references for all escapes")
	flushText := fs.Bool("flush-text", false, "keep text flush against tags (pretty mode)")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [options] [file]\n\n", os.Args[0]),
			writeln(stderr, "Formats an XML document from a file or standard input."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		if err := writeln(stderr, "error: at most one input file argument is allowed"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}

	input := stdin
	if len(remaining) == 1 && remaining[0] != "-" {
		f, err := os.Open(remaining[0])
		if err != nil {
			if writeErr := writef(stderr, "error opening input: %v\n", err); writeErr != nil {
				return 1
			}
			return 1
		}
		defer f.Close()
		input = f
	}

	doc, err := xmldom.FromReader(input)
	if err != nil {
		if de, ok := xmldomerrors.AsDocument(err); ok {
			if writeErr := writef(stderr, "error: %s\n", de.Error()); writeErr != nil {
				return 1
			}
			return 1
		}
		if writeErr := writef(stderr, "error parsing document: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}

	if *sortAll {
		doc.Sort(true)
	} else if *sortAttrs {
		doc.Sort(false)
	}

	cfg := xmldom.DefaultConfig()
	if *pretty {
		cfg = xmldom.PrettyConfig()
		cfg.Indent = *indent
		cfg.MaxLineLength = *width
		cfg.IndentTextNodes = !*flushText
	}
	if *hex {
		cfg.EntityMode = xmldom.EntityModeHex
	}

	if err := doc.Print(stdout, cfg); err != nil {
		_ = writef(stderr, "error writing output: %v\n", err)
		return 1
	}
	if !*pretty {
		if err := writeln(stdout); err != nil {
			return 1
		}
	}
	return 0
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
