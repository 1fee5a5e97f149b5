package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	lisp "github.com/sicp-lisp/lisp"
)

func main() {
	var (
		softLimit   = flag.Uint64("soft", 65535, "Soft memory limit in bytes")
		hardLimit   = flag.Uint64("hard", 131071, "Hard memory limit in bytes")
		timeout     = flag.Int("timeout", 0, "Per-evaluation timeout in seconds (0 disables it)")
		verbose     = flag.Bool("verbose", false, "Enable verbose diagnostic logging")
		inputPath   = flag.String("input", "", "Path to a source file to run instead of starting the REPL")
	)
	flag.Parse()

	cfg := &lisp.Config{
		SoftLimit:      *softLimit,
		HardLimit:      *hardLimit,
		Verbose:        *verbose,
		TimeoutSeconds: *timeout,
	}

	ctx, err := lisp.NewContext(cfg)
	if err != nil {
		log.Fatalf("can't create context: %s", err.Error())
	}
	if err := ctx.SetupEnvironment(); err != nil {
		log.Fatalf("can't set up environment: %s", err.Error())
	}
	defer ctx.Close()

	if *inputPath != "" {
		text, err := os.ReadFile(*inputPath)
		if err != nil {
			log.Fatalf("can't open input file: %s", err.Error())
		}
		result, err := ctx.EvalProgramSupervised(string(text))
		if err != nil {
			log.Fatalf("can't read input: %s", err.Error())
		}
		fmt.Println(ctx.Print(result))
		return
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			fmt.Println("")
			break
		}
		if line == "\n" {
			continue
		}

		result, err := ctx.EvalProgramSupervised(line)
		if err != nil {
			fmt.Println("ERROR: " + err.Error())
			continue
		}
		fmt.Println(ctx.Print(result))
	}
}
