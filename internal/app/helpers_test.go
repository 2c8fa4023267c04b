package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/lexcov/internal/config"
)

// polynesianTSV has Hawaiian-Maori sharing 3 concepts and every pair with
// Tongan sharing 2.
const polynesianTSV = `# toy sample
ID	DOCULECT	CONCEPT	IPA	COGID
1	Hawaiian	hand	lima	1
2	Hawaiian	eight	walu	2
3	Hawaiian	fish	iʔa	3
4	Hawaiian	water	wai	4
5	Maori	hand	ringa	5
6	Maori	eight	waru	2
7	Maori	fish	ika	3
8	Tongan	hand	nima	1
9	Tongan	eight	valu	2
10	Maori	hand	ringa	5
`

type testEnv struct {
	dir    string
	db     string
	config string
}

// newTestEnv isolates a test from the user's config, environment and
// database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("NO_COLOR", "1")
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvThreshold, "")

	t.Cleanup(func() { cfg = config.Default() })

	return &testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "lexcov.db"),
		config: filepath.Join(dir, "config"),
	}
}

// writeFile writes content under the env's directory and returns its path.
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes the root command against the env's database and config.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runContext(t, context.Background(), "", args...)
}

func (e *testEnv) runContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCommands(RootCmd, ctx)

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(append([]string{"--db", e.db, "--config-dir", e.config}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.ExecuteContext(ctx)
	return out.String(), err
}

// importSample imports polynesianTSV as "polynesian".
func (e *testEnv) importSample(t *testing.T) string {
	t.Helper()
	path := e.writeFile(t, "polynesian.tsv", polynesianTSV)
	_, err := e.run(t, "import", path)
	require.NoError(t, err)
	return path
}

// resetCommands restores every flag to its default so package-level flag
// variables do not leak between executions, and hands ctx to every command
// since cobra keeps the context of a subcommand's first run.
func resetCommands(cmd *cobra.Command, ctx context.Context) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		resetCommands(c, ctx)
	}
}
