//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const buildPackage = "github.com/G-Research/submitfilter/internal/submitfilter/build"

// Cleans build and test output.
func Clean() {
	fmt.Println("Cleaning...")
	for _, path := range []string{"bin", "dist", "test_reports"} {
		os.RemoveAll(path)
	}
}

// BuildSubmitfilter builds the submitfilter binary into ./bin, stamping it with the
// version from RELEASE_VERSION and the current git commit.
func BuildSubmitfilter() error {
	mg.Deps(makeLocalBin)
	ldflags, err := buildLdflags()
	if err != nil {
		return err
	}
	return sh.RunWith(
		map[string]string{"CGO_ENABLED": "0"},
		"go", "build", "-ldflags", ldflags, "-o", "bin/submitfilter", "./cmd/submitfilter",
	)
}

func buildLdflags() (string, error) {
	commit, err := sh.Output("git", "rev-parse", "HEAD")
	if err != nil {
		return "", errors.Errorf("error reading git commit: %v", err)
	}
	version := os.Getenv("RELEASE_VERSION")
	if version == "" {
		version = "dev"
	}
	flags := []string{
		fmt.Sprintf("-X %s.ReleaseVersion=%s", buildPackage, version),
		fmt.Sprintf("-X %s.GitCommit=%s", buildPackage, strings.TrimSpace(commit)),
		fmt.Sprintf("-X %s.BuildTime=%s", buildPackage, time.Now().UTC().Format(time.RFC3339)),
	}
	return strings.Join(flags, " "), nil
}

// Check dependent tools are present.
func CheckDeps() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"go", goCheck},
		{"git", gitCheck},
	}
	failures := false
	for _, check := range checks {
		fmt.Printf("Checking %s... ", check.name)
		if err := check.check(); err != nil {
			fmt.Printf("FAILED\nReason: %v\n", err)
			failures = true
		} else {
			fmt.Println("PASSED")
		}
	}
	if failures {
		return errors.New("check(s) failed.")
	}
	return nil
}

func goCheck() error {
	_, err := sh.Output("go", "version")
	return err
}

func gitCheck() error {
	_, err := sh.Output("git", "--version")
	return err
}
