// Command tlcodec is a bootstrap CLI converting between JSON and the
// tlcodec wire format. It is bootstrap glue over the codec, not part of
// the core implementation: a thin, synchronous program reading one file
// (or stdin) and writing one file (or stdout).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tlcodec/tlcodec/codec"
)

func main() {
	mode := flag.String("mode", "", "encode or decode")
	inputFile := flag.String("input", "", "input file (default: stdin)")
	outputFile := flag.String("output", "", "output file (default: stdout)")
	gzip := flag.Bool("gzip", false, "enable per-value GZIP on encode")
	verbose := flag.Bool("verbose", false, "print byte counts to stderr")

	flag.Parse()

	switch *mode {
	case "encode":
		if err := runEncode(*inputFile, *outputFile, *gzip, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "tlcodec: %v\n", err)
			os.Exit(1)
		}
	case "decode":
		if err := runDecode(*inputFile, *outputFile, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "tlcodec: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "tlcodec: -mode must be \"encode\" or \"decode\"")
		flag.Usage()
		os.Exit(2)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

func createOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return noopCloser{os.Stdout}, nil
	}

	return os.Create(path)
}

type noopCloser struct{ io.Writer }

func (noopCloser) Close() error { return nil }

func runEncode(inputFile, outputFile string, gzip, verbose bool) error {
	in, err := openInput(inputFile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	var opts []codec.Option
	if gzip {
		opts = append(opts, codec.WithGZIP())
	}

	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return fmt.Errorf("build encoder: %w", err)
	}

	encoded, err := enc.Encode(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	out, err := createOutput(outputFile)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "tlcodec: encoded %d JSON bytes into %d wire bytes\n", len(raw), len(encoded))
	}

	return nil
}

func runDecode(inputFile, outputFile string, verbose bool) error {
	in, err := openInput(inputFile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	dec, err := codec.NewDecoder(raw)
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	value, err := dec.ReadValue()
	if err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}

	out, err := createOutput(outputFile)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "tlcodec: decoded %d wire bytes into %d JSON bytes\n", len(raw), len(encoded))
	}

	return nil
}
