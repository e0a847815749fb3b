package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"wallaby/codegen/ssa"
	"wallaby/codegen/svm"
	"wallaby/codegen/wasm"
	"wallaby/common"
	"wallaby/report"
	"wallaby/samples"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `wallaby` application.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("wallaby", "wallaby compiles typed models to stack machine bytecode, LLVM IR and WebAssembly", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile sample models", true)
	buildCmd.AddPrimaryArg("sample", "the name of the sample model to build", false)
	targetArg := buildCmd.AddSelectorArg("target", "t", "the compilation target", false, []string{"svm", "llvm", "wasm"})
	targetArg.SetDefaultValue("svm")
	buildCmd.AddStringArg("out-dir", "o", "the directory to write compilation output to", false)
	buildCmd.AddStringArg("profile", "p", "the path to a build profile", false)

	runCmd := cli.AddSubcommand("run", "compile a sample model and execute it on the stack machine", true)
	runCmd.AddPrimaryArg("sample", "the name of the sample model to run", true)

	cli.AddSubcommand("list", "list the registered sample models", false)
	cli.AddSubcommand("version", "print the Wallaby version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportStdError(err)
		os.Exit(1)
	}

	report.InitReporter(report.LogLevelFromName(result.Arguments["loglevel"].(string)))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult)
	case "run":
		execRunCommand(subResult)
	case "list":
		for _, s := range samples.All() {
			fmt.Printf("%-14s %s\n", s.Name, s.Description)
		}
	case "version":
		fmt.Println("wallaby v" + common.WallabyVersion)
	}
}

// execBuildCommand executes the build subcommand and handles all its errors.
func execBuildCommand(result *olive.ArgParseResult) {
	prof := defaultProfile()

	// A build profile supplies the defaults; explicit arguments override it.
	if profArg, ok := result.Arguments["profile"]; ok {
		loaded, err := LoadProfile(profArg.(string))
		if err != nil {
			report.ReportFatal("%s", err.Error())
		}

		prof = loaded
	}

	if targetArg, ok := result.Arguments["target"]; ok {
		prof.Target = targetArg.(string)
	}

	if outArg, ok := result.Arguments["out-dir"]; ok {
		prof.OutDir = outArg.(string)
	}

	if name, ok := result.PrimaryArg(); ok {
		prof.Samples = []string{name}
	}

	if len(prof.Samples) == 0 {
		prof.Samples = samples.Names()
	}

	failed := false
	for _, name := range prof.Samples {
		// Compilation errors have already been displayed at the compile
		// boundary; the build just records the failure.
		if err := buildSample(name, prof.Target, prof.OutDir); err != nil {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// buildSample compiles one sample model for the selected target and writes the
// output file into outDir.
func buildSample(name, target, outDir string) error {
	sample, ok := samples.Lookup(name)
	if !ok {
		report.ReportFatal("unknown sample model `%s`", name)
	}

	var out []byte
	var ext string

	switch target {
	case "svm":
		p, err := svm.Compile(sample.Model())
		if err != nil {
			return err
		}

		out, ext = []byte(p.String()), ".svm"
	case "llvm":
		mod, err := ssa.Compile(sample.Model())
		if err != nil {
			return err
		}

		out, ext = []byte(mod.String()), ".ll"
	case "wasm":
		module, err := wasm.Compile(sample.Model())
		if err != nil {
			return err
		}

		out, ext = module, ".wasm"
	default:
		report.ReportFatal("unknown target `%s`", target)
	}

	outPath := filepath.Join(outDir, name+ext)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		report.ReportFatal("unable to write `%s`: %s", outPath, err.Error())
	}

	report.ReportInfo("Compiled", "%s -> %s", name, outPath)
	return nil
}

// execRunCommand executes the run subcommand: the sample is compiled to
// bytecode and executed on the stack machine with output going to stdout.
func execRunCommand(result *olive.ArgParseResult) {
	name, _ := result.PrimaryArg()

	sample, ok := samples.Lookup(name)
	if !ok {
		report.ReportFatal("unknown sample model `%s`", name)
	}

	p, err := svm.Compile(sample.Model())
	if err != nil {
		os.Exit(1)
	}

	m := svm.NewMachine(os.Stdout)
	if err := m.Run(p); err != nil {
		report.ReportStdError(err)
		os.Exit(1)
	}
}
