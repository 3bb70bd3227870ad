package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultConfigPath = "config/config.toml"
	ConfigFileName    = "config.toml"
	ConfigExtension   = ".toml"
	ServiceName       = "linkage-service"

	DefaultServiceEndpoint = "http://localhost:8080"

	EnvironmentDev  = "dev"
	EnvironmentTest = "test"
	EnvironmentProd = "prod"
)

type LinkageServiceConfig struct {
	conf.Version
	Server   ServerConfig   `toml:"server"`
	Services ServicesConfig `toml:"services"`
}

// ServerConfig represents configurable properties for the HTTP server
type ServerConfig struct {
	Environment        string        `toml:"env" conf:"default:dev"`
	APIHost            string        `toml:"api_host" conf:"default:0.0.0.0:3000"`
	ReadTimeout        time.Duration `toml:"read_timeout" conf:"default:5s"`
	WriteTimeout       time.Duration `toml:"write_timeout" conf:"default:5s"`
	ShutdownTimeout    time.Duration `toml:"shutdown_timeout" conf:"default:5s"`
	LogLocation        string        `toml:"log_location" conf:"default:log"`
	LogLevel           string        `toml:"log_level" conf:"default:debug"`
	EnableAllowAllCORS bool          `toml:"enable_allow_all_cors" conf:"default:false"`
}

// ServicesConfig represents configurable properties for the components of the service
type ServicesConfig struct {
	// at present, it is assumed that a single storage provider works for all services
	StorageProvider string `toml:"storage"`
	StorageOption   string `toml:"storage_option"`
	ServiceEndpoint string `toml:"service_endpoint"`

	LinkageConfig LinkageConfig `toml:"linkage,omitempty"`
}

// LinkageConfig represents configurable properties of the domain linkage service
type LinkageConfig struct {
	Name string `toml:"name"`
	// DID methods resolvable by the service
	ResolutionMethods []string `toml:"resolution_methods"`
	// Validity period applied when issuance requests carry no expiration
	CredentialValidity time.Duration `toml:"credential_validity"`
}

// LoadConfig attempts to load a TOML config file from the given path, and coerce it into our object model.
// Before loading, defaults are applied on certain properties, which are overwritten if specified in the TOML file.
func LoadConfig(path string) (*LinkageServiceConfig, error) {
	// a .env file is optional; load it if present
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, skipping")
	}

	defaultConfig := false
	if path == "" {
		logrus.Info("no config path provided, loading default config...")
		defaultConfig = true
	} else if filepath.Ext(path) != ConfigExtension {
		return nil, fmt.Errorf("path<%s> did not match the expected TOML format", path)
	}

	var config LinkageServiceConfig

	// parse and apply defaults
	if err := conf.Parse(os.Args[1:], ServiceName, &config); err != nil {
		switch {
		case errors.Is(err, conf.ErrHelpWanted):
			usage, err := conf.Usage(ServiceName, &config)
			if err != nil {
				return nil, errors.Wrap(err, "parsing config")
			}
			fmt.Println(usage)
			return nil, nil

		case errors.Is(err, conf.ErrVersionWanted):
			version, err := conf.VersionString(ServiceName, &config)
			if err != nil {
				return nil, errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return nil, nil
		}

		return nil, errors.Wrap(err, "parsing config")
	}

	if defaultConfig {
		config.Services = ServicesConfig{
			StorageProvider: "bolt",
			ServiceEndpoint: DefaultServiceEndpoint,
			LinkageConfig: LinkageConfig{
				Name:              "linkage",
				ResolutionMethods: []string{"web"},
			},
		}
	} else {
		// load from TOML file
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return nil, errors.Wrapf(err, "could not load config: %s", path)
		}

		// apply defaults if not included in the toml file
		if config.Services.ServiceEndpoint == "" {
			config.Services.ServiceEndpoint = DefaultServiceEndpoint
		}
		if config.Services.LinkageConfig.Name == "" {
			config.Services.LinkageConfig.Name = "linkage"
		}
	}

	return &config, nil
}
