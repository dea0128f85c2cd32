package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	config string
	dsn    string
}

func newCLI(t *testing.T) *cli {
	for _, k := range []string{"WIKIREF_DSN", "WIKIREF_ADDR", "WIKIREF_SESSION_KEY", "WIKIREF_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &cli{
		t:      t,
		config: filepath.Join(dir, "missing.toml"),
		dsn:    filepath.Join(dir, "wikiref.db"),
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	out, _, err := c.runApp(args...)
	return out, err
}

// runApp runs the command the way main does and returns the app afterwards.
func (c *cli) runApp(args ...string) (string, *app, error) {
	c.t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.config, "--dsn", c.dsn}, args...))
	err := cmd.Execute()
	a.close()
	return out.String(), a, err
}

func TestResolveCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("project", "create", "Docs")
	require.NoError(t, err)
	assert.Contains(t, out, "created project docs")
	assert.Contains(t, out, "start page 1")

	out, err = c.run("resolve", "docs:1")
	require.NoError(t, err)
	assert.Equal(t, "1\tWiki\n", out)

	out, err = c.run("resolve", "Docs:1")
	require.NoError(t, err)
	assert.Equal(t, "1\tWiki\n", out)

	out, err = c.run("resolve", "--project", "docs", "1")
	require.NoError(t, err)
	assert.Equal(t, "1\tWiki\n", out)

	_, err = c.run("resolve", "1")
	assert.ErrorIs(t, err, errNotFound)

	_, err = c.run("resolve", "docs:99")
	assert.ErrorIs(t, err, errNotFound)
}

func TestAdminCommands(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("project", "create", "Platform Team", "--identifier", "platform")
	require.NoError(t, err)

	out, err := c.run("user", "create", "jdoe", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "created user jdoe")

	_, err = c.run("user", "create", "nopass")
	assert.Error(t, err)

	out, err = c.run("member", "add", "platform", "jdoe")
	require.NoError(t, err)
	assert.Contains(t, out, "view_wiki_pages")

	_, err = c.run("member", "add", "missing", "jdoe")
	assert.Error(t, err)

	out, err = c.run("project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "platform\tPlatform Team")

	require.NoError(t, func() error { _, err := c.run("wiki", "start-page", "platform", "7"); return err }())

	out, err = c.run("wiki", "destroy", "platform")
	require.NoError(t, err)
	assert.Contains(t, out, "destroyed wiki of platform")

	_, err = c.run("resolve", "platform:1")
	assert.ErrorIs(t, err, errNotFound)

	_, err = c.run("wiki", "destroy", "platform")
	assert.Error(t, err)
}

func TestMigrateCommand(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "database migrated")
}

func TestFailingCommandReleasesResources(t *testing.T) {
	c := newCLI(t)

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--config", c.config, "--dsn", c.dsn, "resolve", "nope:1"})
	require.ErrorIs(t, cmd.Execute(), errNotFound)

	db := a.db
	require.NotNil(t, db, "the failing command still opened the database")
	a.close()
	assert.ErrorContains(t, db.Ping(), "database is closed")
	assert.Nil(t, a.logger)

	// A second close is harmless.
	a.close()
}
