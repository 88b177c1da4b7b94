// @title DID Awards Voting API
// @version 1.0
// @description Backend API for the DID Awards: email verification, per-category ballots and administration

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token

// @securityDefinitions.apikey SessionToken
// @in header
// @name x-session-token
package main

import (
	"errors"
	"strings"

	_ "github.com/Pierocul/DIDAWARDS/docs"

	"github.com/Pierocul/DIDAWARDS/api"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	logging.BoostrapLogger()

	// Local .env is optional
	if err := godotenv.Load(); err != nil {
		logging.Log.Debugf("no .env file loaded: %v", err)
	}

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logging.Log.Errorf("Failed to read config file: %v", err)
			panic("Failed to read config file: " + err.Error())
		}
		logging.Log.Warn("No config file found, using environment and defaults")
	}
	logging.SetLevel(viper.GetString("logging.level"))

	// Read config
	config := api.ReadConfig()

	// Start the service (inside the lambda)
	service := api.NewServer(config)
	service.Start()
}
