// Package config holds the server configuration, loaded from an optional
// YAML file and overridden by command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bogglefr/bogglesrv/internal/dict"
)

// Server holds all configuration for the game server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// WSPort, when non-zero, enables the websocket gateway serving the same
	// line protocol.
	WSPort int `yaml:"ws_port"`

	// Session
	Turns        int  `yaml:"tours"`
	Immediate    bool `yaml:"immediat"`
	TurnSeconds  int  `yaml:"duree_tour"`
	PauseSeconds int  `yaml:"duree_pause"`

	// Grids, when non-empty, replaces dice rolls with a fixed rotation of
	// 16-letter grids.
	Grids []string `yaml:"grilles"`

	Dictionary string `yaml:"dico"`
	LogLevel   string `yaml:"log_level"`
}

func (s Server) TurnDuration() time.Duration {
	return time.Duration(s.TurnSeconds) * time.Second
}

func (s Server) PauseDuration() time.Duration {
	return time.Duration(s.PauseSeconds) * time.Second
}

// DefaultServer returns the Server config with its documented defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:  "127.0.0.1",
		Port:         2018,
		Turns:        10,
		Immediate:    false,
		TurnSeconds:  180,
		PauseSeconds: 10,
		Dictionary:   dict.DefaultFile,
		LogLevel:     "info",
	}
}

// Load reads the YAML config at path on top of the defaults. An empty path
// or a missing file yields the defaults.
func Load(path string) (Server, error) {
	cfg := DefaultServer()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// ParseFlags builds the effective config: defaults, then the YAML file named
// by --config, then any flag the caller set explicitly.
func ParseFlags(args []string) (Server, error) {
	def := DefaultServer()
	fs := flag.NewFlagSet("bogglesrv", flag.ContinueOnError)

	var (
		configPath = fs.String("config", "", "chemin du fichier de configuration YAML")
		bind       = fs.String("bind_address", def.BindAddress, "adresse d'écoute")
		port       = fs.Int("port", def.Port, "port d'écoute TCP")
		wsPort     = fs.Int("ws_port", def.WSPort, "port de la passerelle websocket (0: désactivée)")
		turns      = fs.Int("tours", def.Turns, "nombre de tours par session")
		immediate  = fs.Bool("immediat", def.Immediate, "rejet immédiat des mots déjà joués")
		turnSec    = fs.Int("duree_tour", def.TurnSeconds, "durée d'un tour en secondes")
		pauseSec   = fs.Int("duree_pause", def.PauseSeconds, "pause entre deux tours en secondes")
		dico       = fs.String("dico", def.Dictionary, "chemin du dictionnaire")
		logLevel   = fs.String("log_level", def.LogLevel, "niveau de log (debug, info, warn, error)")
	)
	var grids gridList
	fs.Var(&grids, "grilles", "grilles fixes de 16 lettres, séparées par des virgules")

	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}

	cfg, err := Load(*configPath)
	if err != nil {
		return Server{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bind_address":
			cfg.BindAddress = *bind
		case "port":
			cfg.Port = *port
		case "ws_port":
			cfg.WSPort = *wsPort
		case "tours":
			cfg.Turns = *turns
		case "immediat":
			cfg.Immediate = *immediate
		case "duree_tour":
			cfg.TurnSeconds = *turnSec
		case "duree_pause":
			cfg.PauseSeconds = *pauseSec
		case "dico":
			cfg.Dictionary = *dico
		case "log_level":
			cfg.LogLevel = *logLevel
		case "grilles":
			cfg.Grids = grids
		}
	})

	return cfg, nil
}

// gridList collects --grilles values; the flag is repeatable and each value
// may carry several comma-separated grids.
type gridList []string

func (g *gridList) String() string { return strings.Join(*g, ",") }

func (g *gridList) Set(value string) error {
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		*g = append(*g, s)
	}
	return nil
}
