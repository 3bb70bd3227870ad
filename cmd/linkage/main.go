package main

import (
	"context"
	"crypto/ed25519"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/origintrust/linkage-service/config"
	"github.com/origintrust/linkage-service/internal/credential"
	"github.com/origintrust/linkage-service/internal/did"
	"github.com/origintrust/linkage-service/internal/keyaccess"
	"github.com/origintrust/linkage-service/pkg/server"
	"github.com/origintrust/linkage-service/pkg/service/linkage"
	"github.com/origintrust/linkage-service/pkg/storage"
)

const (
	configPathEnvVar = "LINKAGE_SERVICE_CONFIG_PATH"

	// optional local signing capability for the hosted issuance endpoint
	signerKeyURIEnvVar = "LINKAGE_SERVICE_SIGNER_KEY_URI"
	signerSeedEnvVar   = "LINKAGE_SERVICE_SIGNER_SEED"
)

func main() {
	logrus.Info("Starting up...")

	if err := run(); err != nil {
		logrus.Fatalf("main: error: %s", err.Error())
	}
}

// startup and shutdown logic
func run() error {
	configPath := config.DefaultConfigPath
	if envConfigPath, present := os.LookupEnv(configPathEnvVar); present {
		logrus.Infof("loading config from env var path: %s", envConfigPath)
		configPath = envConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logrus.Fatalf("could not instantiate config: %s", err.Error())
	}
	if cfg == nil {
		// help or version was requested
		return nil
	}

	if logFile := configureLogger(cfg.Server.LogLevel, cfg.Server.LogLocation); logFile != nil {
		defer func(logFile *os.File) {
			if err = logFile.Close(); err != nil {
				logrus.WithError(err).Error("failed to close log file")
			}
		}(logFile)
	}

	logrus.Infof("main: Started : Service initializing : env [%s] : version %q", cfg.Server.Environment, cfg.Version.SVN)
	defer logrus.Info("main: Completed")

	out, err := conf.String(cfg)
	if err != nil {
		return errors.Wrap(err, "serializing config")
	}
	logrus.Infof("main: Config: \n%v\n", out)

	resolver, err := buildResolver(cfg.Services.LinkageConfig.ResolutionMethods)
	if err != nil {
		return errors.Wrap(err, "building resolver")
	}

	store, err := buildStorage(cfg.Services)
	if err != nil {
		return errors.Wrap(err, "building storage")
	}
	defer func() {
		if err = store.Close(); err != nil {
			logrus.WithError(err).Error("failed to close storage")
		}
	}()

	service, err := linkage.NewService(resolver, store)
	if err != nil {
		return errors.Wrap(err, "instantiating linkage service")
	}
	if validity := cfg.Services.LinkageConfig.CredentialValidity; validity > 0 {
		service.Validity = validity
	}

	signers := keyaccess.NewSignerRegistry()
	if err = registerLocalSigner(signers); err != nil {
		return errors.Wrap(err, "registering local signer")
	}

	// create a channel of buffer size 1 to handle shutdown.
	// buffer's size is 1 in order to ignore any additional ctrl+c
	// spamming.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	linkageServer, err := server.NewServer(shutdown, *cfg, service, signers)
	if err != nil {
		logrus.Fatalf("could not start http services: %s", err.Error())
	}

	serverErrors := make(chan error, 1)
	go func() {
		logrus.Infof("main: server started and listening on -> %s", linkageServer.Server.Addr)
		serverErrors <- linkageServer.ListenAndServe()
	}()

	select {
	case err = <-serverErrors:
		return errors.Wrap(err, "server error")
	case sig := <-shutdown:
		logrus.Infof("main: shutdown signal received -> %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err = linkageServer.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("main: failed to stop server gracefully, forcing shutdown")
			if err = linkageServer.Close(); err != nil {
				logrus.WithError(err).Error("main: failed to close server")
			}
		}
	}

	return nil
}

// buildResolver constructs a multi method resolver for the configured methods.
// Methods without a local implementation are skipped, matching how resolution
// support is rolled out incrementally.
func buildResolver(methods []string) (did.Resolver, error) {
	resolvers := make(map[string]did.Resolver, len(methods))
	for _, method := range methods {
		switch method {
		case did.WebMethod:
			resolvers[method] = did.NewWebResolver()
		default:
			logrus.Errorf("failed to create resolver for method %s: unsupported", method)
		}
	}
	return did.NewMultiMethodResolver(resolvers)
}

func buildStorage(cfg config.ServicesConfig) (storage.ServiceStorage, error) {
	switch cfg.StorageProvider {
	case "", "bolt":
		filePath := cfg.StorageOption
		if filePath == "" {
			filePath = storage.DBFile
		}
		return storage.NewBoltDBWithFile(filePath)
	default:
		return nil, errors.Errorf("unsupported storage provider: %s", cfg.StorageProvider)
	}
}

// registerLocalSigner registers an in-memory ed25519 signing capability when
// one is configured in the environment. Deployments embedding a real
// key-management service register their own capabilities instead.
func registerLocalSigner(signers *keyaccess.SignerRegistry) error {
	keyURI, hasKeyURI := os.LookupEnv(signerKeyURIEnvVar)
	seedHex, hasSeed := os.LookupEnv(signerSeedEnvVar)
	if !hasKeyURI || !hasSeed {
		return nil
	}

	seed, err := credential.HexToBytes(seedHex)
	if err != nil {
		return errors.Wrap(err, "decoding signer seed")
	}
	if len(seed) != ed25519.SeedSize {
		return errors.Errorf("signer seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	signerDID, _, err := did.DecomposeKeyURI(keyURI)
	if err != nil {
		return errors.Wrap(err, "decomposing signer key uri")
	}
	signer, err := keyaccess.NewEd25519KeyAccess(keyURI, ed25519.NewKeyFromSeed(seed))
	if err != nil {
		return errors.Wrap(err, "creating signer")
	}
	signers.Register(signerDID, signer)
	logrus.Infof("registered local signing capability for did<%s>", signerDID)
	return nil
}

// configureLogger configures the logger to log to the given location and returns a file pointer to a logs
// file that should be closed upon server shutdown
func configureLogger(level, location string) *os.File {
	if level != "" {
		logLevel, err := logrus.ParseLevel(level)
		if err != nil {
			logrus.WithError(err).Errorf("could not parse log level<%s>, setting to info", level)
			logrus.SetLevel(logrus.InfoLevel)
		} else {
			logrus.SetLevel(logLevel)
		}
	}

	logrus.SetFormatter(&logrus.JSONFormatter{
		DisableTimestamp: false,
		PrettyPrint:      true,
	})
	logrus.SetReportCaller(true)

	now := time.Now()
	logrus.SetOutput(os.Stdout)
	if location != "" {
		logFile := location + "/" + config.ServiceName + "-" + now.Format(time.DateOnly) + "-" + strconv.FormatInt(now.Unix(), 10) + ".log"
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.WithError(err).Warn("failed to create logs file, using default stdout")
		} else {
			mw := io.MultiWriter(os.Stdout, file)
			logrus.SetOutput(mw)
		}
		return file
	}
	return nil
}
