//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	goutils "github.com/l50/goutils"
	"github.com/l50/goutils/v2/git"
	"github.com/l50/goutils/v2/sys"

	// mage utility functions
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type compileParams struct {
	GOOS   string
	GOARCH string
}

var repoRoot string

func init() {
	os.Setenv("GO111MODULE", "on")

	var err error
	repoRoot, err = git.RepoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get repo root: %v\n", err)
		os.Exit(1)
	}
}

func (p *compileParams) populateFromEnv() {
	if p.GOOS == "" {
		p.GOOS = os.Getenv("GOOS")
		if p.GOOS == "" {
			p.GOOS = runtime.GOOS
		}
	}

	if p.GOARCH == "" {
		p.GOARCH = os.Getenv("GOARCH")
		if p.GOARCH == "" {
			p.GOARCH = runtime.GOARCH
		}
	}
}

// Compile builds the cargo-remote binary into bin/ for the target given
// by GOOS and GOARCH, defaulting to the current system.
//
// The version, commit and build date are stamped into the binary from git.
//
// Example usage:
//
// ```go
// mage compile
// GOOS=darwin GOARCH=arm64 mage compile
// ```
//
// **Returns:**
//
// error: An error if any issue occurs during compilation.
func Compile() error {
	cwd, err := changeToRepoRoot()
	if err != nil {
		return err
	}
	defer os.Chdir(cwd)

	var p compileParams
	p.populateFromEnv()

	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "none"
	}
	date, err := sh.Output("date", "-u", "+%Y-%m-%dT%H:%M:%SZ")
	if err != nil {
		date = "unknown"
	}

	ldflags := strings.Join([]string{
		"-s", "-w",
		"-X", "main.version=" + version,
		"-X", "main.commit=" + commit,
		"-X", "main.date=" + date,
	}, " ")

	out := filepath.Join("bin", fmt.Sprintf("cargo-remote-%s-%s", p.GOOS, p.GOARCH))
	fmt.Printf("Compiling the cargo-remote binary for %s/%s, please wait.\n", p.GOOS, p.GOARCH)

	env := map[string]string{"GOOS": p.GOOS, "GOARCH": p.GOARCH, "CGO_ENABLED": "0"}
	if err := sh.RunWithV(env, "go", "build", "-ldflags", ldflags, "-o", out, "./cmd/cargo-remote"); err != nil {
		return fmt.Errorf("failed to compile cargo-remote: %v", err)
	}
	return nil
}

// Install installs cargo-remote into GOBIN so that cargo picks it up as
// the `cargo remote` subcommand.
//
// Example usage:
//
// ```go
// mage install
// ```
//
// **Returns:**
//
// error: An error if any issue occurs during installation.
func Install() error {
	cwd, err := changeToRepoRoot()
	if err != nil {
		return err
	}
	defer os.Chdir(cwd)

	fmt.Println("Installing cargo-remote.")
	return sh.RunV("go", "install", "./cmd/cargo-remote")
}

func changeToRepoRoot() (originalCwd string, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}

	if cwd != repoRoot {
		if err := os.Chdir(repoRoot); err != nil {
			return "", fmt.Errorf("failed to change directory to repo root: %v", err)
		}
	}

	return cwd, nil
}

// RunTests executes all unit tests with the race detector.
//
// Example usage:
//
// ```go
// mage runtests
// ```
//
// **Returns:**
//
// error: An error if any issue occurs while running the tests.
func RunTests() error {
	cwd, err := changeToRepoRoot()
	if err != nil {
		return err
	}
	defer os.Chdir(cwd)

	if !sys.CmdExists("go") {
		return fmt.Errorf("go is not installed")
	}

	fmt.Println("Running unit tests.")
	if err := sh.RunV("go", "test", "-race", "-count=1", "./..."); err != nil {
		return fmt.Errorf("failed to run unit tests: %v", err)
	}
	return nil
}

// GenerateSchema writes the JSON schema of cargo-remote configuration
// files to schema/cargo-remote.json.
//
// Example usage:
//
// ```go
// mage generateschema
// ```
//
// **Returns:**
//
// error: An error if the schema could not be generated.
func GenerateSchema() error {
	cwd, err := changeToRepoRoot()
	if err != nil {
		return err
	}
	defer os.Chdir(cwd)

	return sh.RunV("go", "run", "./cmd/schema-gen", "-o", filepath.Join("schema", "cargo-remote.json"))
}

// Tidy runs `go mod tidy` for the cargo-remote module and checks the
// downloaded modules against go.sum.
func Tidy() error {
	cwd, err := changeToRepoRoot()
	if err != nil {
		return err
	}
	defer os.Chdir(cwd)

	fmt.Println(color.YellowString("Tidying cargo-remote modules."))
	if err := goutils.Tidy(); err != nil {
		return fmt.Errorf(color.RedString("failed to tidy modules: %v", err))
	}
	return sh.RunV("go", "mod", "verify")
}

// RunPreCommit installs the pre-commit hooks if needed and runs them
// against every file in the repo.
func RunPreCommit() error {
	mg.Deps(Tidy)

	if !sys.CmdExists("pre-commit") {
		return fmt.Errorf("%s", color.RedString("pre-commit is not installed"))
	}

	fmt.Println(color.YellowString("Installing pre-commit hooks."))
	if err := goutils.InstallPCHooks(); err != nil {
		return err
	}

	fmt.Println(color.YellowString("Running all pre-commit hooks locally."))
	return goutils.RunPCHooks()
}
