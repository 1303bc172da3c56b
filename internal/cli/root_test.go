package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mantemos", cmd.Use)
	assert.Contains(t, cmd.Long, "shift-gated")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serve", "issue", "tech", "field", "orders", "backup", "sync"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestIssueCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	issueCmd, _, err := cmd.Find([]string{"issue"})
	require.NoError(t, err)

	fieldFlag := issueCmd.Flags().Lookup("field")
	require.NotNil(t, fieldFlag)
	assert.Equal(t, "f", fieldFlag.Shorthand)

	// --login and --password are required, so defaults are empty
	assert.Equal(t, "", issueCmd.Flags().Lookup("login").DefValue)
	assert.Equal(t, "", issueCmd.Flags().Lookup("password").DefValue)
}

func TestTechAddCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"tech", "add"})
	require.NoError(t, err)

	for _, name := range []string{"name", "re", "login", "password", "shift"} {
		flag := addCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "tech add should have --%s", name)
	}
}

func TestFieldAddCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"field", "add"})
	require.NoError(t, err)

	kindFlag := addCmd.Flags().Lookup("kind")
	require.NotNil(t, kindFlag)
	assert.Equal(t, "text", kindFlag.DefValue)

	requiredFlag := addCmd.Flags().Lookup("required")
	require.NotNil(t, requiredFlag)
	assert.Equal(t, "false", requiredFlag.DefValue)
}

func TestOrdersCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	ordersCmd, _, err := cmd.Find([]string{"orders"})
	require.NoError(t, err)

	techFlag := ordersCmd.Flags().Lookup("tech")
	require.NotNil(t, techFlag)
	assert.Equal(t, "", techFlag.DefValue)
}

func TestBackupSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	exportCmd, _, err := cmd.Find([]string{"backup", "export"})
	require.NoError(t, err)
	require.NotNil(t, exportCmd.Flags().Lookup("out"))

	importCmd, _, err := cmd.Find([]string{"backup", "import"})
	require.NoError(t, err)
	assert.Equal(t, "import", importCmd.Name())
}

func TestSyncSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"status", "pull"} {
		subCmd, _, err := cmd.Find([]string{"sync", name})
		require.NoError(t, err)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "orders"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestExitErrorCodes(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad input")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	wrapped := WrapExitError(ExitFailure, "outer", err)
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Contains(t, wrapped.Error(), "outer")

	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
