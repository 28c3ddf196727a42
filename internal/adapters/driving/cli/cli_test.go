package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "documentor version test-version-1.0.0")
}

func TestSetVersion(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty version is ignored")
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_Flags(t *testing.T) {
	onDuplicate := ingestCmd.Flags().Lookup("on-duplicate")
	require.NotNil(t, onDuplicate)
	assert.Equal(t, "reject", onDuplicate.DefValue)

	require.NotNil(t, ingestCmd.Flags().Lookup("title"))
	require.NotNil(t, ingestCmd.Flags().Lookup("json"))
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocsCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range docsCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["delete"])
}

func TestPrintSources(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := rootCmd
	cmd.SetOut(buf)

	printSources(cmd, []domain.SourceReference{
		{DocumentTitle: "Guide", ChunkText: "text", RelevanceScore: 0.87, ChunkID: "c1"},
		{DocumentTitle: "FAQ", ChunkText: "text", RelevanceScore: 0.41, ChunkID: "c2"},
	})

	out := buf.String()
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] Guide")
	assert.Contains(t, out, "0.87")
	assert.Contains(t, out, "[2] FAQ")
}

func TestPrintSources_EmptyPrintsNothing(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printSources(rootCmd, nil)
	assert.Empty(t, buf.String())
}
