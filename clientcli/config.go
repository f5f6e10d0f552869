package clientcli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:9500"

// DefaultProfile is the profile name configure writes when none is given.
const DefaultProfile = "default"

// Environment variables read by sharebox-cli.
const (
	EnvEndpoint = "SHAREBOX_ENDPOINT"
	EnvToken    = "SHAREBOX_TOKEN"
	EnvProfile  = "SHAREBOX_PROFILE"
	EnvConfig   = "SHAREBOX_CONFIG"
)

// Profile is one saved server. Name is filled in from the map key on read.
type Profile struct {
	Name     string `yaml:"-"`
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token,omitempty"`
}

// Profiles is the on-disk profile file:
//
//	current: work
//	profiles:
//	  work:
//	    endpoint: https://share.example.com
//	    token: ...
type Profiles struct {
	Current string             `yaml:"current,omitempty"`
	Servers map[string]Profile `yaml:"profiles"`
}

// Lookup returns the named profile, or the current one when name is empty.
// With no current profile set, a file holding exactly one profile resolves
// to it.
func (p *Profiles) Lookup(name string) (Profile, error) {
	if len(p.Servers) == 0 {
		return Profile{}, ErrNoProfiles
	}
	if name == "" {
		name = p.Current
	}
	if name == "" {
		if len(p.Servers) != 1 {
			return Profile{}, fmt.Errorf("%w: no current profile among %d", ErrProfileNotFound, len(p.Servers))
		}
		name = p.Names()[0]
	}

	prof, ok := p.Servers[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	prof.Name = name
	return prof, nil
}

// Put stores prof under prof.Name, replacing any previous entry. The first
// profile saved becomes current.
func (p *Profiles) Put(prof Profile) {
	if p.Servers == nil {
		p.Servers = make(map[string]Profile)
	}
	p.Servers[prof.Name] = Profile{Endpoint: prof.Endpoint, Token: prof.Token}
	if p.Current == "" {
		p.Current = prof.Name
	}
}

// Use makes name the current profile.
func (p *Profiles) Use(name string) error {
	if _, ok := p.Servers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	p.Current = name
	return nil
}

// Names returns the profile names in sorted order.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Servers))
	for name := range p.Servers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns every profile, sorted by name.
func (p *Profiles) List() []Profile {
	names := p.Names()
	out := make([]Profile, len(names))
	for i, name := range names {
		out[i] = p.Servers[name]
		out[i].Name = name
	}
	return out
}

// ReadProfiles parses the profile file at path. A missing file yields an
// error wrapping fs.ErrNotExist.
func ReadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is the user's profile file
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return &p, nil
}

// WriteProfiles replaces the profile file at path. The file holds tokens,
// so it is written 0600 through a temp file in the same directory.
func WriteProfiles(path string, p *Profiles) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*")
	if err != nil {
		return fmt.Errorf("create temp profile file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ProfilesPath returns the profile file location: SHAREBOX_CONFIG when set,
// otherwise ~/.sharebox/config.yaml. explicit reports whether the env var
// chose it.
func ProfilesPath() (path string, explicit bool) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".sharebox", "config.yaml"), false
}

// Config is the connection a Client uses.
type Config struct {
	Endpoint string
	Token    string
}

// WithDefaults returns a copy with DefaultEndpoint filled in.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ValidateWithAuth checks that a share token is set.
func (c *Config) ValidateWithAuth() error {
	if c.Token == "" {
		return ErrTokenRequired
	}
	return nil
}

// Overlay returns c with every non-empty field of o applied on top.
func (c Config) Overlay(o Config) Config {
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Token != "" {
		c.Token = o.Token
	}
	return c
}

// Config converts a saved profile into a connection.
func (p Profile) Config() Config {
	return Config{Endpoint: p.Endpoint, Token: p.Token}
}

// FromEnv reads SHAREBOX_ENDPOINT and SHAREBOX_TOKEN.
func FromEnv() Config {
	return Config{
		Endpoint: os.Getenv(EnvEndpoint),
		Token:    os.Getenv(EnvToken),
	}
}
