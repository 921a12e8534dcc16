package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of cmd and its subcommands to its default,
// including the bound package variables and the Changed state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs credsctl with args and returns stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestServiceCommand(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "",
		"service", "my-service",
		"--token", "my-token",
		"--permission", "perm",
		"--attribute", "action=read",
		"--output", "string",
		"--debug",
	)
	require.NoError(t, err)

	assert.Equal(t, "backstageCredentials{servicePrincipal{my-service,accessRestrictions=cXWOJgUirHkHNZIowUi/YO5nwEwhTicC38iXi2XTYCk}}\n", stdout)
	assert.Contains(t, stderr, "created credentials")
	assert.NotContains(t, stdout+stderr, "my-token")
}

func TestUserCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "",
		"user", "mock",
		"--token", "my-token",
		"--actor", "my-actor",
		"--expires-in", "1h",
		"--output", "json",
	)
	require.NoError(t, err)

	assert.Equal(t, `{"$$type":"@backstage/BackstageCredentials","version":"v1","principal":{"type":"user","userEntityRef":"user:default/mock","actor":{"type":"service","subject":"my-actor"}}}`+"\n", stdout)
}

func TestUserCommand_RejectsOtherKinds(t *testing.T) {
	t.Run("group ref", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "", "user", "group:default/admins", "--output", "string")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not of kind")
		assert.Empty(t, stdout)
	})

	t.Run("kind matching ignores case", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "", "user", "User:default/mock", "--output", "string")
		require.NoError(t, err)
		assert.Equal(t, "backstageCredentials{userPrincipal{user:default/mock}}\n", stdout)
	})
}

func TestExecuteCommand_FlagsDoNotLeak(t *testing.T) {
	t.Run("with flags", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "user", "mock", "--actor", "my-actor", "--output", "json", "--debug")
		require.NoError(t, err)
	})

	t.Run("without flags", func(t *testing.T) {
		assert.Empty(t, userActor)
		assert.False(t, debug)

		stdout, stderr, err := executeCommand(t, "", "user", "mock")
		require.NoError(t, err)
		assert.Equal(t, "backstageCredentials{userPrincipal{user:default/mock}}\n"+
			`{"$$type":"@backstage/BackstageCredentials","version":"v1","principal":{"type":"user","userEntityRef":"user:default/mock"}}`+"\n", stdout)
		assert.NotContains(t, stderr, "created credentials")
	})
}

func TestNoneCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "none", "--output", "both")
	require.NoError(t, err)

	assert.Equal(t, "backstageCredentials{nonePrincipal}\n"+`{"$$type":"@backstage/BackstageCredentials","version":"v1","principal":{"type":"none"}}`+"\n", stdout)
}

func TestInspectCommand(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		content := `{"$$type":"@backstage/BackstageCredentials","version":"v1","principal":{"type":"user","userEntityRef":"user:default/mock"}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		stdout, _, err := executeCommand(t, "", "inspect", path, "--output", "string")
		require.NoError(t, err)
		assert.Equal(t, "backstageCredentials{userPrincipal{user:default/mock}}\n", stdout)
	})

	t.Run("invalid version from stdin", func(t *testing.T) {
		_, _, err := executeCommand(t, `{"$$type":"@backstage/BackstageCredentials","version":"v0","principal":{"type":"none"}}`, "inspect", "--output", "string")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credential version")
	})
}

func TestFromClaimsCommand(t *testing.T) {
	claims := `{"sub":"user:default/mock","act":{"sub":"plugin:catalog"},"exp":1792324800}`

	stdout, _, err := executeCommand(t, claims, "from-claims", "-", "--token", "my-token", "--output", "string")
	require.NoError(t, err)
	assert.Equal(t, "backstageCredentials{userPrincipal{user:default/mock,actor={servicePrincipal{plugin:catalog}}}}\n", stdout)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, _, err := executeCommand(t, "", "none", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --output")
}
