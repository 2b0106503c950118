package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"irisserve/db"
	qhttp "irisserve/http"
	"irisserve/logging"
	"irisserve/ml"
)

type Config struct {
	Http struct {
		Port int `yaml:"port"`
	} `yaml:"http"`
	Model struct {
		Type string `yaml:"type"`
		Path string `yaml:"path"`
	} `yaml:"model"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log logging.Config `yaml:"log"`
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(config.Log)
	defer logger.Sync()

	// 2. Initialize prediction store
	if dir := filepath.Dir(config.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("failed to create database dir", zap.Error(err))
		}
	}
	if err := db.InitDB(config.Database.Path); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("database initialized", zap.String("path", config.Database.Path))

	// 3. Load the model artifact. Any failure here is fatal: the process
	// must not reach the serving state without a usable model.
	model, err := ml.LoadModel(config.Model.Type, config.Model.Path)
	if err != nil {
		logger.Fatal("failed to load model artifact", zap.Error(err))
	}
	logger.Info("model loaded",
		zap.String("type", config.Model.Type),
		zap.String("path", config.Model.Path),
		zap.Int("features", model.FeatureCount()),
	)

	qhttp.SetLogger(logger)
	qhttp.SetClassifier(model)

	// 4. Start HTTP server
	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = config.Http.Port
	server := qhttp.NewServer(serverConfig)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}

	logger.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
