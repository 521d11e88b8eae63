package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/adapters/cli"
	grpcadapter "github.com/andrescamacho/amalgam-go/internal/adapters/grpc"
	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/application/setup"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/database"
)

type cliFixture struct {
	socket     string
	configPath string
	home       string
}

// newCLIFixture runs a daemon on a temp unix socket whose ledger lives in a
// sqlite file the CLI also reads through --config
func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dbPath := filepath.Join(dir, "ledger.db")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf("database:\n  type: sqlite\n  path: %s\n", dbPath)), 0644))

	db, err := database.NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	sessions := persistence.NewMemorySessionRepository(0)
	turns := persistence.NewGormTurnRecordRepository(db)
	med, err := setup.NewHandlerRegistry(sessions, turns, nil, nil, session.DefaultSettings(), nil).CreateConfiguredMediator()
	require.NoError(t, err)

	socket := filepath.Join(dir, "d.sock")
	lis, err := net.Listen("unix", socket)
	require.NoError(t, err)
	server := grpcadapter.NewDaemonServerWithListener(med, nil, lis)
	go func() { _ = server.Start() }()
	t.Cleanup(server.Stop)

	return &cliFixture{socket: socket, configPath: configPath, home: home}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--socket", f.socket, "--config", f.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGameCommands_NewMoveShowTree(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)

	// Act
	started, err := f.run(t, "game", "new", "--seed", "5", "--size", "7")
	require.NoError(t, err)
	moved, err := f.run(t, "game", "move", "UP")
	require.NoError(t, err)
	shown, err := f.run(t, "game", "show")
	require.NoError(t, err)
	tree, err := f.run(t, "game", "tree", "--no-color")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, started, "✓ Session started")
	assert.Contains(t, started, "Grid:       7x7")
	assert.Contains(t, started, "Saved as the default session.")
	assert.Contains(t, moved, "Turn 1: up")
	assert.Contains(t, moved, "Territory: 2 cells")
	assert.Contains(t, shown, "Turn:       1\n")
	assert.Contains(t, shown, "Territory:  2 cells")
	assert.Contains(t, tree, "Quantum Amalgam [tier 4]")
	assert.Contains(t, tree, "Tree: 15 nodes")

	handler, err := config.NewUserConfigHandlerAt(filepath.Join(f.home, ".amalgam"))
	require.NoError(t, err)
	userCfg, err := handler.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, userCfg.DefaultSessionID)
	assert.Contains(t, started, userCfg.DefaultSessionID)
}

func TestGameCommands_MoveWithoutSession(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "game", "move", "up")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session specified")
}

func TestGameCommands_UnknownSession(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "--session", "7b1c1f4e-8a53-4c4b-9d8e-2f0b3c6a1d22", "game", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLedgerCommands_ListAndExport(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	_, err := f.run(t, "game", "new", "--seed", "5", "--size", "7")
	require.NoError(t, err)
	for _, dir := range []string{"up", "left", "sideways"} {
		_, err := f.run(t, "game", "move", dir)
		require.NoError(t, err)
	}
	exportPath := filepath.Join(t.TempDir(), "turns.jsonl.zst")

	// Act
	listed, err := f.run(t, "ledger", "list")
	require.NoError(t, err)
	filtered, err := f.run(t, "ledger", "list", "--direction", "left")
	require.NoError(t, err)
	exported, err := f.run(t, "ledger", "export", "--out", exportPath)
	require.NoError(t, err)

	// Assert
	assert.Contains(t, listed, "TURNS (Showing 2 of 2 total)")
	assert.Contains(t, filtered, "TURNS (Showing 1 of 1 total)")
	assert.Contains(t, exported, "✓ Exported 2 turns")

	file, err := os.Open(exportPath)
	require.NoError(t, err)
	defer file.Close()
	turns, err := cli.ReadTurnExport(file)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].TurnNumber)
	assert.Equal(t, "up", turns[0].Direction)
	assert.Equal(t, 2, turns[1].TurnNumber)
}

func TestLedgerCommands_RejectsBadDate(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "--session", "7b1c1f4e-8a53-4c4b-9d8e-2f0b3c6a1d22", "ledger", "list", "--start-date", "yesterday")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start date format")
}

func TestConfigCommands_DefaultSessionLifecycle(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	id := "7b1c1f4e-8a53-4c4b-9d8e-2f0b3c6a1d22"

	// Act
	_, setErr := f.run(t, "config", "set-session", id)
	shown, showErr := f.run(t, "config", "show")
	_, clearErr := f.run(t, "config", "clear-session")
	cleared, _ := f.run(t, "config", "show")
	_, badErr := f.run(t, "config", "set-session", "not-a-uuid")

	// Assert
	require.NoError(t, setErr)
	require.NoError(t, showErr)
	require.NoError(t, clearErr)
	assert.Contains(t, shown, "Default Session:  "+id)
	assert.Contains(t, shown, "Type:             sqlite")
	assert.Contains(t, cleared, "Default Session:  (not set)")
	assert.Error(t, badErr)
}

func TestHealthCommand(t *testing.T) {
	f := newCLIFixture(t)
	_, err := f.run(t, "game", "new", "--no-save")
	require.NoError(t, err)

	out, err := f.run(t, "health")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ Daemon is healthy")
	assert.Contains(t, out, "Active Sessions: 1")
}
