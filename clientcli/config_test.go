package clientcli_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharebox/sharebox/clientcli"
)

func TestConfig_WithDefaults(t *testing.T) {
	t.Run("keeps endpoint", func(t *testing.T) {
		cfg := (&clientcli.Config{Endpoint: "http://share.test"}).WithDefaults()
		assert.Equal(t, "http://share.test", cfg.Endpoint)
	})

	t.Run("empty endpoint gets default", func(t *testing.T) {
		orig := &clientcli.Config{}
		cfg := orig.WithDefaults()
		assert.Equal(t, clientcli.DefaultEndpoint, cfg.Endpoint)
		assert.Empty(t, orig.Endpoint)
	})
}

func TestConfig_ValidateWithAuth(t *testing.T) {
	assert.NoError(t, (&clientcli.Config{Token: "t"}).ValidateWithAuth())
	assert.ErrorIs(t, (&clientcli.Config{}).ValidateWithAuth(), clientcli.ErrTokenRequired)
}

func TestConfig_Overlay(t *testing.T) {
	base := clientcli.Config{Endpoint: "http://a.test", Token: "t1"}

	assert.Equal(t, base, base.Overlay(clientcli.Config{}))
	assert.Equal(t,
		clientcli.Config{Endpoint: "http://b.test", Token: "t1"},
		base.Overlay(clientcli.Config{Endpoint: "http://b.test"}))
	assert.Equal(t,
		clientcli.Config{Endpoint: "http://a.test", Token: "t2"},
		base.Overlay(clientcli.Config{Token: "t2"}))
}

func TestProfiles_Lookup(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := (&clientcli.Profiles{}).Lookup("")
		assert.ErrorIs(t, err, clientcli.ErrNoProfiles)
	})

	t.Run("single profile without current", func(t *testing.T) {
		p := &clientcli.Profiles{Servers: map[string]clientcli.Profile{
			"home": {Endpoint: "http://nas.local:9500"},
		}}
		prof, err := p.Lookup("")
		require.NoError(t, err)
		assert.Equal(t, "home", prof.Name)
	})

	t.Run("several profiles need a current one", func(t *testing.T) {
		p := &clientcli.Profiles{Servers: map[string]clientcli.Profile{
			"a": {Endpoint: "http://a.test"},
			"b": {Endpoint: "http://b.test"},
		}}
		_, err := p.Lookup("")
		assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)

		require.NoError(t, p.Use("b"))
		prof, err := p.Lookup("")
		require.NoError(t, err)
		assert.Equal(t, "http://b.test", prof.Endpoint)
	})

	t.Run("unknown name", func(t *testing.T) {
		p := &clientcli.Profiles{}
		p.Put(clientcli.Profile{Name: "a", Endpoint: "http://a.test"})

		_, err := p.Lookup("missing")
		assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)
		assert.ErrorIs(t, p.Use("missing"), clientcli.ErrProfileNotFound)
	})
}

func TestProfiles_Put(t *testing.T) {
	p := &clientcli.Profiles{}
	p.Put(clientcli.Profile{Name: "work", Endpoint: "https://share.example.com", Token: "abc"})
	p.Put(clientcli.Profile{Name: "home", Endpoint: "http://nas.local:9500"})

	assert.Equal(t, "work", p.Current, "first profile becomes current")
	assert.Equal(t, []string{"home", "work"}, p.Names())

	p.Put(clientcli.Profile{Name: "work", Endpoint: "https://new.example.com", Token: "xyz"})
	prof, err := p.Lookup("work")
	require.NoError(t, err)
	assert.Equal(t, clientcli.Config{Endpoint: "https://new.example.com", Token: "xyz"}, prof.Config())

	list := p.List()
	require.Len(t, list, 2)
	assert.Equal(t, "home", list[0].Name)
	assert.Equal(t, "work", list[1].Name)
}

func TestWriteProfiles_ReadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	p := &clientcli.Profiles{}
	p.Put(clientcli.Profile{Name: "work", Endpoint: "https://share.example.com", Token: "abc"})
	require.NoError(t, clientcli.WriteProfiles(path, p))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed into place")

	loaded, err := clientcli.ReadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestReadProfiles_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := clientcli.ReadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`profiles: [yaml: content`), 0o600))

		_, err := clientcli.ReadProfiles(path)
		assert.Error(t, err)
	})
}

func TestProfilesPath(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv(clientcli.EnvConfig, "/tmp/cfg.yaml")
		path, explicit := clientcli.ProfilesPath()
		assert.Equal(t, "/tmp/cfg.yaml", path)
		assert.True(t, explicit)
	})

	t.Run("home default", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(clientcli.EnvConfig, "")
		t.Setenv("HOME", home)
		path, explicit := clientcli.ProfilesPath()
		assert.Equal(t, filepath.Join(home, ".sharebox", "config.yaml"), path)
		assert.False(t, explicit)
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv(clientcli.EnvEndpoint, "http://test.example.com")
	t.Setenv(clientcli.EnvToken, "env-token")

	assert.Equal(t,
		clientcli.Config{Endpoint: "http://test.example.com", Token: "env-token"},
		clientcli.FromEnv())
}
