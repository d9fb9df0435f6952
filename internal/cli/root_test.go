package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hlstatsx/heatmaps/pkg/errors"
)

// execute runs the root command with args and returns the command output.
func execute(t *testing.T, args ...string) (*CLI, string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return c, out.String(), err
}

func TestRootWrongArgCountPrintsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"too few", []string{"localhost", "3306"}},
		{"too many", []string{"h", "3306", "u", "p", "db", "/var/www", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("wrong argument count should not fail: %v", err)
			}
			if !strings.Contains(out, "Usage:") || !strings.Contains(out, "<host> <port> <user> <password> <database> <webPath>") {
				t.Errorf("usage not printed:\n%s", out)
			}
		})
	}
}

func TestRootVersion(t *testing.T) {
	_, out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "heatmaps ") {
		t.Errorf("version output = %q", out)
	}
}

func TestRootVerbose(t *testing.T) {
	c, _, err := execute(t, "-v")
	if err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestRootInvalidPort(t *testing.T) {
	_, _, err := execute(t, "localhost", "db", "hlx", "secret", "hlstats", t.TempDir())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestRootInvalidConfigFile(t *testing.T) {
	path := writeConfig(t, `unknown = 1`)
	_, _, err := execute(t, "--config", path, "localhost", "3306", "hlx", "secret", "hlstats", t.TempDir())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestRootConnectionFailure(t *testing.T) {
	// Port 1 on loopback refuses connections.
	_, _, err := execute(t, "127.0.0.1", "1", "hlx", "secret", "hlstats", t.TempDir())
	if !errors.Is(err, errors.ErrCodeConnection) {
		t.Fatalf("err = %v, want CONNECTION", err)
	}
	if !errors.IsFatal(err) {
		t.Error("connection failure should be fatal")
	}
}
