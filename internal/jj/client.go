// Package jj is a thin adapter around the Jujutsu command-line tool. It
// shells out to the jj binary, detects its version, and returns raw
// unified-diff text per changed file.
package jj

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors for tool invocation.
var (
	ErrToolUnavailable = errors.New("jj binary not available")
	ErrVersionUnknown  = errors.New("could not parse jj version")
)

// defaultBinary is the executable looked up on PATH.
const defaultBinary = "jj"

// versionPattern extracts the semantic version from "jj 0.23.0" style output.
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// Version is the detected Jujutsu tool version.
type Version struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

// String returns the dotted version string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether the version is >= major.minor.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}

	return v.Minor >= minor
}

// Client invokes the jj binary. Safe for concurrent use; every call spawns
// its own process.
type Client struct {
	binary string
	logger *slog.Logger
}

// NewClient creates a Client using the default binary name. A nil logger
// uses the slog default.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{binary: defaultBinary, logger: logger}
}

// NewClientWithBinary creates a Client invoking the given executable,
// used by tests to substitute a stub.
func NewClientWithBinary(binary string, logger *slog.Logger) *Client {
	client := NewClient(logger)
	client.binary = binary

	return client
}

// DetectVersion runs "jj --version" and parses the reported version.
func (c *Client) DetectVersion(ctx context.Context) (Version, error) {
	output, err := c.run(ctx, "", "--version")
	if err != nil {
		return Version{}, fmt.Errorf("%w: %w", ErrToolUnavailable, err)
	}

	return ParseVersion(strings.TrimSpace(output))
}

// ParseVersion extracts a Version from raw "jj --version" output.
func ParseVersion(raw string) (Version, error) {
	match := versionPattern.FindStringSubmatch(raw)
	if match == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrVersionUnknown, raw)
	}

	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	patch, _ := strconv.Atoi(match[3])

	return Version{Major: major, Minor: minor, Patch: patch, Raw: raw}, nil
}

// run executes the jj binary with the given arguments, returning stdout.
// Stderr is folded into the error on failure.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("invoking jj", "args", args, "dir", dir)

	err := cmd.Run()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("jj %s: %w", strings.Join(args, " "), err)
		}

		return "", fmt.Errorf("jj %s: %w: %s", strings.Join(args, " "), err, detail)
	}

	return stdout.String(), nil
}
