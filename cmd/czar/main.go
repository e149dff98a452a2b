/*
Czar transpiles CZar source files into C and drives the resulting
translation unit through a host C compiler.

Usage:

	czar [flags] <command> [args...]

Commands:

	build FILE
		Transpile FILE and write its .cz.h/.cz.c companions alongside it,
		reporting any diagnostics produced along the way.

	run FILE
		Transpile FILE, invoke the host C compiler (see --cc) on the
		result, and execute the resulting binary.

	run --repl
		Start an interactive read-eval-print loop: each balanced snippet
		typed at the "czar>" prompt is transpiled and compiled as it is
		entered.

	format FILE
		Reflow the generated-comment alignment of an already-emitted .cz.c
		or .cz.h file in place.

	clean DIR
		Remove every generated .cz.h/.cz.c file under DIR.

The flags are:

	-v, --version
		Give the current version of czar and then exit.

	-c, --config FILE
		Load build settings from FILE instead of the default "czar.toml"
		in the current working directory.

	--cc COMPILER
		Host C compiler to invoke for "run". Defaults to "cc".
*/
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/emitter"
	"github.com/dekarrin/czar/internal/replio"
	"github.com/dekarrin/czar/internal/transpiler"
	"github.com/dekarrin/czar/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitBadArgs indicates bad command line arguments were given.
	ExitBadArgs

	// ExitHalted indicates the transpiler halted on a validation error.
	ExitHalted

	// ExitFatal indicates an unreadable source file or other fatal-input
	// error occurred before a translation unit could be built.
	ExitFatal

	// ExitCompileError indicates the host C compiler rejected the
	// generated translation unit.
	ExitCompileError

	// ExitRunError indicates the compiled program itself exited non-zero.
	ExitRunError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagConfig  *string = pflag.StringP("config", "c", "czar.toml", "The czar.toml file to load build settings from")
	flagCC      *string = pflag.String("cc", "cc", "The host C compiler to invoke for the run command")
	flagRepl    *bool   = pflag.Bool("repl", false, "Start an interactive read-eval-print loop instead of transpiling a file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "ERROR: no command given\nDo -h for help.\n")
		returnCode = ExitBadArgs
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBadArgs
		return
	}

	switch args[0] {
	case "build", "compile":
		runBuild(args[1:], cfg)
	case "run":
		runRun(args[1:], cfg)
	case "format":
		runFormat(args[1:])
	case "clean":
		runClean(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown command %q\nDo -h for help.\n", args[0])
		returnCode = ExitBadArgs
	}
}

func runBuild(args []string, cfg config.Settings) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: build requires exactly one source file\n")
		returnCode = ExitBadArgs
		return
	}

	res, err := transpile(args[0], cfg)
	if err != nil {
		return
	}
	if res == nil {
		return
	}

	base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	if err := os.WriteFile(base+".cz.h", []byte(res.Output.Header), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: write header: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}
	if err := os.WriteFile(base+".cz.c", []byte(res.Output.Source), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: write source: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}

	fmt.Printf("wrote %s.cz.h and %s.cz.c\n", base, base)
}

func runRun(args []string, cfg config.Settings) {
	if *flagRepl {
		runRepl(cfg)
		return
	}

	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: run requires exactly one source file (or --repl)\n")
		returnCode = ExitBadArgs
		return
	}

	res, err := transpile(args[0], cfg)
	if err != nil {
		return
	}
	if res == nil {
		return
	}

	if err := compileAndRun(args[0], *res); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	}
}

func runRepl(cfg config.Settings) {
	isTTY := isInteractiveTerminal()

	var reader replio.Reader
	var err error
	if isTTY {
		reader, err = replio.NewInteractiveReader()
	} else {
		reader = replio.NewDirectReader(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}
	defer reader.Close()

	tmpDir, err := os.MkdirTemp("", "czar-repl-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}
	defer os.RemoveAll(tmpDir)

	snippetPath := filepath.Join(tmpDir, "snippet.cz")

	for {
		snippet, err := reader.ReadSnippet()
		if snippet != "" {
			if err := os.WriteFile(snippetPath, []byte(snippet), 0600); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				continue
			}

			res, terr := transpiler.Transpile(snippetPath, cfg)
			if terr != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", terr.Error())
			} else {
				printDiagnostics(res.Report)
				if res.HaltedAt == "" {
					if rerr := compileAndRun(snippetPath, res); rerr != nil {
						fmt.Fprintf(os.Stderr, "ERROR: %s\n", rerr.Error())
					}
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func runFormat(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: format requires exactly one file\n")
		returnCode = ExitBadArgs
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}

	reflowed := emitter.ReflowGeneratedComments(string(data))
	if err := os.WriteFile(args[0], []byte(reflowed), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
	}
}

func runClean(args []string) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	} else if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "ERROR: clean takes at most one directory argument\n")
		returnCode = ExitBadArgs
		return
	}

	removed := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".cz.h") || strings.HasSuffix(path, ".cz.c") {
			if rerr := os.Remove(path); rerr != nil {
				return rerr
			}
			removed++
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
		return
	}

	fmt.Printf("removed %d generated file(s)\n", removed)
}

// transpile reads and transpiles path, printing any diagnostics produced.
// It returns a nil result (with returnCode already set) if the command
// should stop without proceeding further.
func transpile(path string, cfg config.Settings) (*transpiler.Result, error) {
	res, err := transpiler.Transpile(path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitFatal
		return nil, err
	}

	printDiagnostics(res.Report)

	if res.HaltedAt != "" {
		fmt.Fprintf(os.Stderr, "halted during %s\n", res.HaltedAt)
		returnCode = ExitHalted
		return nil, nil
	}

	return &res, nil
}

func printDiagnostics(r *diag.Reporter) {
	for _, d := range r.Items() {
		fmt.Fprintln(os.Stderr, d.Render())
	}
}

// compileAndRun writes res's header and source next to srcPath, invokes
// the configured host compiler on them, and execs the resulting binary
// with its stdio connected to this process's.
func compileAndRun(srcPath string, res transpiler.Result) error {
	dir := filepath.Dir(srcPath)
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	hPath := filepath.Join(dir, base+".cz.h")
	cPath := filepath.Join(dir, base+".cz.c")
	binPath := filepath.Join(dir, base+".out")

	if err := os.WriteFile(hPath, []byte(res.Output.Header), 0644); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := os.WriteFile(cPath, []byte(res.Output.Source), 0644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}

	cc := exec.Command(*flagCC, cPath, "-o", binPath)
	cc.Stdout = os.Stdout
	cc.Stderr = os.Stderr
	if err := cc.Run(); err != nil {
		returnCode = ExitCompileError
		return fmt.Errorf("compile: %w", err)
	}

	run := exec.Command(binPath)
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	if err := run.Run(); err != nil {
		returnCode = ExitRunError
		return fmt.Errorf("run: %w", err)
	}

	return nil
}

func isInteractiveTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
