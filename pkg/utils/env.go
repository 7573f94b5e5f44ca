package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadEnv loads a .env file from path (if present) and primes viper to read
// environment variables. Missing .env is not an error; containers usually
// inject the environment directly.
func LoadEnv(path string) {
	envFile := filepath.Join(path, ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warnf("[CONFIG] failed to load %s", envFile)
		}
	}
	viper.AutomaticEnv()
}

// CreateFolder makes sure each given directory exists.
func CreateFolder(folders ...string) error {
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return err
		}
	}
	return nil
}
