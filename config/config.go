// Package config loads the game configuration shipped with a game and the
// per-user configuration stored under the user's config directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// GameFile is the game configuration at the root of a game directory.
	GameFile = "config.json"

	DefaultFPS      = 60
	DefaultFontSize = 14
	DefaultFontFace = "default"
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
	userConfigFile  = "config.json"
)

var ErrMissingField = errors.New("config: missing required field")

// Display holds the window settings of a player.
type Display struct {
	WindowSize [2]int `json:"window_size"`
	Fullscreen bool   `json:"fullscreen"`
	FPSLimit   int    `json:"fpslimit"`
	FPSDisplay bool   `json:"fpsdisplay"`
}

// User is the configuration a player may edit.
type User struct {
	Display Display `json:"display"`
}

// DefaultUser is used when neither the player nor the game provide one.
func DefaultUser() User {
	return User{Display: Display{WindowSize: [2]int{800, 600}, FPSLimit: DefaultFPS}}
}

// TPS is the frame rate limit; zero or less means DefaultFPS.
func (u User) TPS() int {
	if u.Display.FPSLimit <= 0 {
		return DefaultFPS
	}
	return u.Display.FPSLimit
}

// Game describes a game and where it starts.
type Game struct {
	Name            string `json:"name"`
	FriendlyName    string `json:"friendly_name"`
	StartingTilemap string `json:"starting_tilemap"`
	PlayerCharacter string `json:"player_character"`
	FontFace        string `json:"font_face"`
	FontSize        int    `json:"font_size"`
	UserConfigPath  string `json:"user_config_path,omitempty"`
	UserConfig      *User  `json:"user_config,omitempty"`
}

// LoadGame reads GameFile from fsys, fills defaults and checks required fields.
func LoadGame(fsys fs.FS) (*Game, error) {
	data, err := fs.ReadFile(fsys, GameFile)
	if err != nil {
		return nil, err
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse %s: %w", GameFile, err)
	}

	required := []struct{ field, value string }{
		{"name", g.Name},
		{"starting_tilemap", g.StartingTilemap},
		{"player_character", g.PlayerCharacter},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%s: %w %q", GameFile, ErrMissingField, r.field)
		}
	}

	if g.FriendlyName == "" {
		g.FriendlyName = g.Name
	}
	if g.FontFace == "" {
		g.FontFace = DefaultFontFace
	}
	if g.FontSize <= 0 {
		g.FontSize = DefaultFontSize
	}
	return &g, nil
}

// UserPath is where the player's configuration lives: user_config_path when
// the game sets one, otherwise <config dir>/<name>/config.json.
func (g *Game) UserPath() (string, error) {
	if g.UserConfigPath != "" {
		return g.UserConfigPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, g.Name, userConfigFile), nil
}

// configDir follows XDG: $XDG_CONFIG_HOME, falling back to ~/.config.
func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// LoadUser reads the player's configuration. On first run it stores the game's
// embedded user config, or DefaultUser, at that path and returns it.
func (g *Game) LoadUser() (User, error) {
	path, err := g.UserPath()
	if err != nil {
		return User{}, err
	}

	fallback := DefaultUser()
	if g.UserConfig != nil {
		fallback = *g.UserConfig
	}
	return LoadUser(path, fallback)
}

// LoadUser reads a user config from path, creating it from fallback when missing.
func LoadUser(path string, fallback User) (User, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fallback, writeUser(path, fallback)
	}
	if err != nil {
		return User{}, err
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return u, nil
}

func writeUser(path string, u User) error {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return err
	}
	data, err := json.MarshalIndent(u, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), defaultFilePerm)
}
