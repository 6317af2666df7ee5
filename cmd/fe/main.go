// Command fe is the reference host for the cellang interpreter: a REPL
// when invoked with no file argument, a one-shot script runner otherwise.
// Grounded on original_source/src/main.c (flags, exit codes, REPL banner)
// and on the teacher's cmd/langlang/main.go flag+bufio+log idiom.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"cellang"
	"cellang/builtins"
	"cellang/compiler"
)

const memoryPoolSize = 1024 * 1024 // 1MB, matches original_source/src/main.c's MEMORY_POOL_SIZE

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nIf no file is provided, starts the interactive REPL.\n")
}

func main() {
	spans := flag.Bool("spans", false, "record source spans for compiled AST nodes (error messages still report line numbers only)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Multiple input files specified.")
		usage()
		os.Exit(64)
	}

	cfg := cellang.NewDefaultConfig()
	cfg.EnableSpans = *spans

	mem := make([]byte, memoryPoolSize)
	ctx := cellang.Open(mem, cfg)
	builtins.RegisterAll(ctx, cfg)

	if flag.NArg() == 0 {
		runREPL(ctx, cfg)
		return
	}
	runFile(ctx, cfg, flag.Arg(0))
}

// replUnwind is the panic value a REPL-installed error handler raises to
// unwind the Go stack back to the loop that runs each line, standing in
// for main.c's setjmp/longjmp "jump back to the REPL" pattern.
type replUnwind struct{}

func runREPL(ctx *cellang.Context, cfg *cellang.Config) {
	fmt.Println("FeX v1.0 (Modern Syntax Layer for enhanced Fe code)")

	ctx.SetHandlers(cellang.Handlers{
		Error: func(ctx *cellang.Context, err *cellang.EvalError) {
			fmt.Fprintf(os.Stderr, "runtime error: %s\n", err.Message)
			panic(replUnwind{})
		},
	})

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			fmt.Println()
			return
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(replUnwind); !ok {
						panic(r)
					}
				}
			}()
			result, errs := compiler.DoString(ctx, line, cfg)
			if errs != nil {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, e.Error())
				}
				return
			}
			fmt.Println(ctx.ToString(result, true))
		}()
	}
}

func runFile(ctx *cellang.Context, cfg *cellang.Config, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Could not open file %q.", path)
		os.Exit(74)
	}

	_, errs := compiler.DoString(ctx, string(source), cfg)
	if errs != nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(65)
	}
}
