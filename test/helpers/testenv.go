// ABOUTME: TestEnv provides isolated test environments for acceptance tests
// ABOUTME: Creates temp directories and runs the CLI binary with environment overrides
package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Result is the outcome of one CLI invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// TestEnv represents an isolated test environment
type TestEnv struct {
	TempDir     string // Root temp directory
	HomeDir     string // Fake ~/.catalint
	ConfigFile  string // Fake ~/.catalint/config.toml
	HistoryFile string // Fake ~/.catalint/history/runs.jsonl
	Binary      string // Path to catalint binary
}

// NewTestEnv creates a new isolated test environment
func NewTestEnv(binary string) *TestEnv {
	tempDir := GinkgoT().TempDir()

	env := &TestEnv{
		TempDir:     tempDir,
		HomeDir:     filepath.Join(tempDir, ".catalint"),
		ConfigFile:  filepath.Join(tempDir, ".catalint", "config.toml"),
		HistoryFile: filepath.Join(tempDir, ".catalint", "history", "runs.jsonl"),
		Binary:      binary,
	}
	Expect(os.MkdirAll(env.HomeDir, 0755)).To(Succeed())
	return env
}

// Run executes the CLI with the given arguments
func (e *TestEnv) Run(args ...string) *Result {
	return e.RunWithEnvAndInput(nil, "", args...)
}

// RunWithInput executes the CLI with stdin input
func (e *TestEnv) RunWithInput(input string, args ...string) *Result {
	return e.RunWithEnvAndInput(nil, input, args...)
}

// RunWithEnv executes the CLI with additional environment variables
func (e *TestEnv) RunWithEnv(extraEnv map[string]string, args ...string) *Result {
	return e.RunWithEnvAndInput(extraEnv, "", args...)
}

// RunWithEnvAndInput executes the CLI with additional env vars and stdin input.
// The working directory is the environment's temp dir.
func (e *TestEnv) RunWithEnvAndInput(extraEnv map[string]string, input string, args ...string) *Result {
	cmd := exec.Command(e.Binary, args...)
	cmd.Dir = e.TempDir
	cmd.Env = append(cleanEnviron(), "CATALINT_HOME="+e.HomeDir)
	for k, v := range extraEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// cleanEnviron drops catalint settings inherited from the developer's shell
func cleanEnviron() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "CATALINT_") {
			env = append(env, kv)
		}
	}
	return env
}

// WriteConfig writes config.toml into the catalint home
func (e *TestEnv) WriteConfig(content string) {
	Expect(os.WriteFile(e.ConfigFile, []byte(content), 0644)).To(Succeed())
}

// WriteFile writes a file relative to the temp dir and returns its path
func (e *TestEnv) WriteFile(name, content string) string {
	path := filepath.Join(e.TempDir, name)
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
	return path
}

// WriteCatalog writes a catalog as JSON relative to the temp dir
func (e *TestEnv) WriteCatalog(name string, catalog map[string]any) string {
	path := filepath.Join(e.TempDir, name)
	WriteJSON(path, catalog)
	return path
}

// HistoryLines returns the raw lines of the run history log
func (e *TestEnv) HistoryLines() []string {
	data, err := os.ReadFile(e.HistoryFile)
	if os.IsNotExist(err) {
		return nil
	}
	Expect(err).NotTo(HaveOccurred())
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// ValidCatalog returns a small catalog that passes every rule
func ValidCatalog() map[string]any {
	return map[string]any{
		"mime_types": []any{"application/x-shockwave-flash"},
		"plugins": map[string]any{
			"flash": map[string]any{
				"display_name": "Adobe Flash Player",
				"description":  "Shockwave Flash",
				"url":          "https://get.adobe.com/flashplayer/",
				"mimes":        []any{"application/x-shockwave-flash"},
				"regex":        []any{"Shockwave Flash"},
				"versions": map[string]any{
					"win": map[string]any{
						"latest": []any{
							map[string]any{
								"status":         "latest",
								"version":        "18.0.0.203",
								"detection_type": "original",
								"os_name":        "win",
								"platform": map[string]any{
									"app_id":      "*",
									"app_release": "*",
									"app_version": "*",
									"locale":      "*",
								},
							},
						},
					},
				},
			},
		},
	}
}

// BuildBinary builds the catalint binary and returns its path
func BuildBinary() string {
	binPath := filepath.Join(GinkgoT().TempDir(), "catalint")

	// Find the project root by looking for go.mod
	projectRoot, err := findProjectRoot()
	Expect(err).NotTo(HaveOccurred())

	sourcePath := filepath.Join(projectRoot, "cmd", "catalint")

	cmd := exec.Command("go", "build", "-o", binPath, sourcePath)
	Expect(cmd.Run()).To(Succeed())
	return binPath
}

// findProjectRoot walks up the directory tree to find go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// WriteJSON writes data as JSON to the specified path
func WriteJSON(path string, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	Expect(err).NotTo(HaveOccurred())
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, jsonData, 0644)).To(Succeed())
}

// LoadJSON reads and parses a JSON document
func LoadJSON(data string) map[string]any {
	var result map[string]any
	Expect(json.Unmarshal([]byte(data), &result)).To(Succeed())
	return result
}
