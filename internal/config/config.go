package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "WORKSLEDGER_"

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Access   Access   `koanf:"access"`
	Demo     Demo     `koanf:"demo"`
	Forms    Forms    `koanf:"forms"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Access configures the view/edit gate. DefaultRole applies to requests
// that carry no X-User-Role header.
type Access struct {
	DefaultRole string `koanf:"defaultrole"`
}

type Demo struct {
	Enabled bool `koanf:"enabled"`
}

type Forms struct {
	// SessionTTL bounds how long an abandoned form session is kept in memory.
	SessionTTL time.Duration `koanf:"sessionttl"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr: ":8181",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "worksledger",
			Pass:   "",
			Name:   "worksledger",
			Schema: "worksledger",
		},
		Access: Access{
			DefaultRole: "editor",
		},
		Demo: Demo{
			Enabled: true,
		},
		Forms: Forms{
			SessionTTL: 2 * time.Hour,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	// .env is a convenience for local runs; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
