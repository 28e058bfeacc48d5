package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/beandoc/internal/config"
	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
)

// parse builds a parser over a fresh CLI and parses args.
func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("beandoc"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return kctx, cli
}

// useMemoryStore keeps the database out of the working directory.
func useMemoryStore(t *testing.T) {
	t.Helper()
	require.NoError(t, os.WriteFile("beandoc.yaml", []byte("database:\n  store_dir: \":memory:\"\n"), 0o600))
}

func TestParse_DefaultsToGenerate(t *testing.T) {
	kctx, cli := parse(t)
	assert.Equal(t, "generate", kctx.Command())
	assert.Equal(t, config.DefaultPath, cli.Config)
}

func TestParse_Subcommands(t *testing.T) {
	kctx, cli := parse(t, "-v", "list", "--values")
	assert.Equal(t, "list", kctx.Command())
	assert.True(t, cli.Verbose)
	assert.True(t, cli.List.Values)

	kctx, cli = parse(t, "generate", "-o", "out", "--format", "markdown", "--no-manifest")
	assert.Equal(t, "generate", kctx.Command())
	assert.Equal(t, "out", cli.Generate.Output)
	assert.True(t, cli.Generate.NoManifest)
}

func TestGenerate_NoArguments(t *testing.T) {
	t.Chdir(t.TempDir())
	useMemoryStore(t)

	var out bytes.Buffer
	kctx, cli := parse(t)
	require.NoError(t, kctx.Run(&Global{Stdout: &out}, cli))

	assert.FileExists(t, filepath.Join("target", "docs", "ops", "jmx-list.adoc"))
	assert.FileExists(t, filepath.Join("target", "docs", "ops", "jmx-kernel.adoc"))
	assert.FileExists(t, filepath.Join("target", "docs", "ops", "manifest.json"))
	assert.NoFileExists(t, filepath.Join("target", "docs", "ops", "jmx-jmx-server.adoc"))
	assert.True(t, strings.HasPrefix(out.String(), "  [+] number of beans found: "))
}

func TestGenerate_Flags(t *testing.T) {
	t.Chdir(t.TempDir())
	useMemoryStore(t)

	var out bytes.Buffer
	kctx, cli := parse(t, "generate", "-o", "md", "-f", "md", "--no-manifest")
	require.NoError(t, kctx.Run(&Global{Stdout: &out}, cli))

	assert.FileExists(t, filepath.Join("md", "jmx-list.md"))
	assert.NoFileExists(t, filepath.Join("md", "manifest.json"))
}

func TestGenerate_InvalidFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	useMemoryStore(t)

	kctx, cli := parse(t, "generate", "--format", "pdf")
	err := kctx.Run(&Global{Stdout: &bytes.Buffer{}}, cli)
	require.Error(t, err)
	assert.True(t, dberrors.HasCategory(err, dberrors.CategoryValidation))
}

func TestGenerate_BadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("beandoc.yaml", []byte("registry:\n  queries: [\"broken\"]\n"), 0o600))

	kctx, cli := parse(t)
	err := kctx.Run(&Global{Stdout: &bytes.Buffer{}}, cli)
	require.Error(t, err)
	assert.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))
	assert.Equal(t, 7, dberrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestList(t *testing.T) {
	t.Chdir(t.TempDir())
	useMemoryStore(t)

	var out bytes.Buffer
	kctx, cli := parse(t, "list", "--values")
	require.NoError(t, kctx.Run(&Global{Stdout: &out}, cli))

	assert.Contains(t, out.String(), "jmx-store-file-sizes\tStore file sizes\torg.neo4j.management.StoreFile\n")
	assert.Contains(t, out.String(), "    NumberOfNodeIdsInUse = 0\n")
	assert.NotContains(t, out.String(), "JMX Server")
}

func TestInit(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	kctx, cli := parse(t, "init")
	require.NoError(t, kctx.Run(&Global{Stdout: &out}, cli))
	assert.Contains(t, out.String(), "initialized successfully")
	assert.FileExists(t, config.DefaultPath)

	kctx, cli = parse(t, "init")
	err := kctx.Run(&Global{Stdout: &out}, cli)
	require.Error(t, err)
	assert.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))

	kctx, cli = parse(t, "init", "--force")
	require.NoError(t, kctx.Run(&Global{Stdout: &out}, cli))
}
