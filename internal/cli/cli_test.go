package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eups-setup/internal/app"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"setup", "unsetup", "list"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestSetupCommandFlags(t *testing.T) {
	cmd := newSetupCommand()
	flags := map[string]string{
		"flavor": "f",
		"path":   "Z",
		"root":   "r",
		"just":   "j",
		"shell":  "",
		"format": "",
	}
	for name, shorthand := range flags {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "missing flag: %s", name)
		assert.Equal(t, shorthand, flag.Shorthand, "shorthand of %s", name)
	}
}

func TestUnsetupAndListCommandFlags(t *testing.T) {
	unsetup := newUnsetupCommand()
	assert.NotNil(t, unsetup.Flags().Lookup("path"))
	assert.NotNil(t, unsetup.Flags().Lookup("shell"))

	list := newListCommand()
	assert.NotNil(t, list.Flags().Lookup("flavor"))
	assert.NotNil(t, list.Flags().Lookup("path"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")

	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

func TestArgsRangeIsInvalidArgument(t *testing.T) {
	check := argsRange(1, 2)
	assert.NoError(t, check(nil, []string{"foo"}))

	err := check(nil, nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		verbose  int
		debug    int
		expected zerolog.Level
	}{
		{name: "quiet", expected: zerolog.WarnLevel},
		{name: "one -v", verbose: 1, expected: zerolog.InfoLevel},
		{name: "EUPS_DEBUG wins when larger", verbose: 1, debug: 2, expected: zerolog.DebugLevel},
		{name: "trace", verbose: 5, expected: zerolog.TraceLevel},
		{name: "explicit", explicit: "ERROR", verbose: 3, expected: zerolog.ErrorLevel},
		{name: "bad explicit falls back", explicit: "loud", verbose: 1, expected: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logLevel(tt.explicit, tt.verbose, tt.debug))
		})
	}
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("no flavor"),
			expected: 2,
		},
		{
			name: "not set up",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("foo is not set up"),
			expected: 4,
		},
		{
			name: "resolution miss",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("no current version of foo"),
			expected: 5,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("something broke")
	assert.Equal(t, "something broke", errorMessage(err))
	assert.Equal(t, assert.AnError.Error(), errorMessage(assert.AnError))
}

// ---------- Command execution tests ----------

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func withEnviron(t *testing.T, environ ...string) {
	t.Helper()
	for _, name := range []string{"EUPS_SITEDATA", "EUPS_PATH", "EUPS_FLAVOR", "EUPS_SHELL", "EUPS_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	t.Setenv("EUPS_USERDATA", t.TempDir())
	previous := newAppService
	newAppService = func() app.Service {
		service := app.NewService()
		service.Environ = func() []string { return environ }
		return service
	}
	t.Cleanup(func() { newAppService = previous })
}

func fooRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ups_db", "foo", "current.chain"), "FLAVOR = Linux\nVERSION = 2.0\n")
	writeFile(t, filepath.Join(root, "ups_db", "foo", "2.0.version"), "FLAVOR = Linux\nPROD_DIR = foo/2.0\n")
	writeFile(t, filepath.Join(root, "foo", "2.0", "ups", "foo.table"), "envSet(FOO_MODE, fast)\n")
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestSetupCommandPrintsScript(t *testing.T) {
	root := fooRoot(t)
	withEnviron(t, "SHELL=/bin/tcsh")

	out, err := execute(t, "setup", "foo", "-f", "Linux", "-Z", root, "--shell", "sh")
	require.NoError(t, err)
	assert.Contains(t, out, "export FOO_DIR="+filepath.Join(root, "foo", "2.0")+"\n")
	assert.Contains(t, out, "export FOO_MODE=fast\n")
}

func TestSetupCommandUsageErrors(t *testing.T) {
	withEnviron(t)

	_, err := execute(t, "setup")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))

	_, err = execute(t, "setup", "foo", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestUnsetupCommandNotSetUp(t *testing.T) {
	withEnviron(t)

	_, err := execute(t, "unsetup", "foo")
	require.Error(t, err)
	assert.Equal(t, 4, exitCodeForError(err))
}

func TestListCommandRendersTable(t *testing.T) {
	root := fooRoot(t)
	withEnviron(t)

	out, err := execute(t, "list", "foo", "-f", "Linux", "-Z", root)
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "2.0")
	assert.Contains(t, out, "current")
}
