//go:build ignore

// build.go - Logistics Analyzer build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, logistics, server, test, clean

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
)

const module = "github.com/burevuh-next/logistics-analyzer"

var (
	distDir = "dist"

	// key = directory under cmd/, value = output binary name
	executables = map[string]string{
		"logistics": "logistics",
		"server":    "logistics-server",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	start := time.Now()
	switch *target {
	case "all":
		for _, name := range []string{"logistics", "server"} {
			buildExecutable(name, *verbose)
		}
	case "logistics", "server":
		buildExecutable(*target, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		if err := os.RemoveAll(distDir); err != nil {
			printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
			os.Exit(1)
		}
		printSuccess("Build artifacts cleaned")
	default:
		fmt.Println("Targets: all, logistics, server, test, clean")
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(start).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func buildExecutable(name string, verbose bool) {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s",
		module, time.Now().UTC().Format(time.RFC3339), gitCommit())

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}
