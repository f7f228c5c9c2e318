package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"

	"github.com/aycc/aycc/pkg/cli"
	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/driver"
	"github.com/aycc/aycc/pkg/util"
)

func main() {
	app := cli.NewApp("aycc")
	app.Synopsis = "[options] <input.c|input.o> ..."
	app.Description = "A C front end: lexes and preprocesses C sources."

	var (
		dumpLexer        bool
		printTokens      bool
		verbose          bool
		inputFiles       []string
		userIncludePaths []string
		stdIncludeRoot   string
		target           string
		std              string
		configFile       string
		jobs             int
		maxIncludeDepth  int
	)

	fs := app.FlagSet
	fs.Bool(&dumpLexer, "lexer", "l", false, "Print the tokens of every lexed file, line by line.")
	fs.Bool(&printTokens, "preprocess", "E", false, "Print the preprocessed token stream of every source.")
	fs.Bool(&verbose, "verbose", "v", false, "Report each processing step.")
	fs.List(&inputFiles, "files", "f", "Add an input file.", "file")
	fs.List(&userIncludePaths, "include", "I", "Add a directory to the include path.", "path")
	fs.String(&stdIncludeRoot, "std-include", "", config.DefaultStdIncludeRoot, "Root directory of the standard headers.", "dir")
	fs.String(&target, "target", "t", "", "Target name selecting <std-include>/<target>/ (default: host).", "target")
	fs.String(&std, "std", "", "c11", "Language standard (c89, c99, c11).", "std")
	fs.String(&configFile, "config", "c", "", "Read toolchain settings from a YAML file.", "file")
	fs.Int(&jobs, "jobs", "j", 0, "Process up to <n> files at once (default: number of CPUs).", "n")
	fs.Int(&maxIncludeDepth, "max-include-depth", "", config.DefaultMaxIncludeDepth, "Maximum #include nesting.", "n")

	cfg := config.NewConfig()
	warningFlags, featureFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(args []string) error {
		util.Verbose = verbose
		cfg.SetTarget(runtime.GOOS, runtime.GOARCH, "")

		if configFile != "" {
			if err := cfg.LoadFile(configFile); err != nil {
				util.Fatal("%v", err)
			}
		}
		if err := cfg.ApplyEnv(); err != nil {
			util.Fatal("%v", err)
		}

		// Command line settings override the file and the environment.
		if fs.Lookup("std").Set {
			if err := cfg.ApplyStd(std); err != nil {
				util.Fatal("%v", err)
			}
		}
		cfg.ApplyFlagGroups(warningFlags, featureFlags)
		if fs.Lookup("std-include").Set {
			cfg.StdIncludeRoot = stdIncludeRoot
		}
		if target != "" {
			cfg.SetTarget(runtime.GOOS, runtime.GOARCH, target)
		}
		if jobs > 0 {
			cfg.Jobs = jobs
		}
		if fs.Lookup("max-include-depth").Set {
			cfg.MaxIncludeDepth = maxIncludeDepth
		}
		cfg.UserIncludePaths = append(cfg.UserIncludePaths, userIncludePaths...)

		files := append(inputFiles, args...)
		if len(files) == 0 {
			util.Fatal("no input files")
		}
		util.Info("target %s, std %s, %d job(s)", cfg.Target, cfg.StdName, cfg.Jobs)

		d, err := driver.New(cfg)
		if err != nil {
			util.Fatal("%v", err)
		}
		d.DumpLexer, d.PrintTokens = dumpLexer, printTokens

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		objects, err := d.Run(ctx, files)
		if err != nil {
			if errors.Is(err, driver.ErrNotEnoughObjects) {
				util.Error("%v", err)
				os.Exit(1)
			}
			util.Fatal("%v", err)
		}
		for _, obj := range objects {
			util.Info("object %s", obj)
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
