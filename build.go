//go:build ignore

// build.go - gpacalc build system
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, gpacalc, gpaweb, test, release, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

const versionPackage = "gpacalc/pkg/contracts"

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Release bool
	OutDir  string
}

// executables maps a cmd/ directory to its output binary name.
var executables = map[string]string{
	"gpacalc": "gpacalc",
	"gpaweb":  "gpaweb",
}

var (
	info    = color.New(color.FgBlue).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	outDir := flag.String("out", "dist", "Output directory for binaries")
	flag.Parse()

	ctx := &BuildContext{Verbose: *verbose, OutDir: *outDir}
	start := time.Now()

	var err error
	switch *target {
	case "all":
		err = buildAll(ctx)
	case "gpacalc", "gpaweb":
		err = buildExecutable(*target, ctx)
	case "test":
		err = runTests(ctx)
	case "release":
		ctx.Release = true
		err = buildAll(ctx)
	case "clean":
		err = clean(ctx)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(start).Round(time.Millisecond)))
}

func printInfo(msg string)    { fmt.Printf("%s %s\n", info("[INFO]"), msg) }
func printSuccess(msg string) { fmt.Printf("%s %s\n", success("[SUCCESS]"), msg) }
func printError(msg string)   { fmt.Printf("%s %s\n", failure("[ERROR]"), msg) }

func buildAll(ctx *BuildContext) error {
	printInfo("Building all executables...")
	for name := range executables {
		if err := buildExecutable(name, ctx); err != nil {
			return err
		}
	}
	return nil
}

func buildExecutable(name string, ctx *BuildContext) error {
	output := executables[name]
	if runtime.GOOS == "windows" {
		output += ".exe"
	}
	output = filepath.Join(ctx.OutDir, output)
	printInfo(fmt.Sprintf("Building %s -> %s", name, output))

	ldflags := fmt.Sprintf("-X %s.BuildTime=%s -X %s.GitCommit=%s",
		versionPackage, time.Now().UTC().Format(time.RFC3339),
		versionPackage, gitCommit())
	if ctx.Release {
		ldflags = "-s -w " + ldflags
	}

	args := []string{"build", "-ldflags", ldflags, "-o", output}
	if ctx.Release {
		args = append(args, "-trimpath")
	}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./cmd/"+name)

	if err := goCommand(args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}
	return nil
}

func runTests(ctx *BuildContext) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")
	if err := goCommand(args...); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	printSuccess("All tests passed")
	return nil
}

func clean(ctx *BuildContext) error {
	printInfo("Cleaning build artifacts and logs...")
	for _, dir := range []string{ctx.OutDir, "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}
	return nil
}

func goCommand(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// gitCommit returns the short HEAD hash, or "unknown" outside a repository.
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-out=DIR]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all        Build gpacalc and gpaweb (default)")
	fmt.Println("  gpacalc    Build the command-line calculator")
	fmt.Println("  gpaweb     Build the HTTP server")
	fmt.Println("  test       Run all tests with the race detector")
	fmt.Println("  release    Build stripped, trimmed binaries")
	fmt.Println("  clean      Remove binaries and logs")
}
