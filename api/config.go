package api

import (
	"strings"
	"sync"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/mail"
	"github.com/spf13/viper"
)

const (
	StorageBackendDynamo = "dynamo"
	StorageBackendMemory = "memory"

	EmailProviderEmailJS = "emailjs"
	EmailProviderLog     = "log"
)

type Config struct {
	StorageConfig
	ServerConfig
	VotingConfig
	EmailConfig
	AdminConfig
}

type StorageConfig struct {
	Backend             string
	SeedExample         bool
	TableNameUsers      string
	TableNameCategories string
	TableNameCandidates string
	TableNameVotes      string
}

type ServerConfig struct {
	Port int
}

type VotingConfig struct {
	Domain             string
	MaxGeneration      int
	SessionIdleTimeout time.Duration
}

type EmailConfig struct {
	Provider string
	EmailJS  mail.EmailJSConfig
}

type AdminConfig struct {
	Token  string
	Emails []string
}

var settingsOnce sync.Once

func ReadConfig() *Config {
	var conf = &Config{
		StorageConfig: StorageConfig{
			Backend:             getStringOrDefault("storage.backend", StorageBackendDynamo),
			SeedExample:         getBoolOrDefault("storage.seedExample", false),
			TableNameUsers:      getStringOrDefault("storage.TableNameUsers", "Users"),
			TableNameCategories: getStringOrDefault("storage.TableNameCategories", "Categories"),
			TableNameCandidates: getStringOrDefault("storage.TableNameCandidates", "Candidates"),
			TableNameVotes:      getStringOrDefault("storage.TableNameVotes", "Votes"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		VotingConfig: VotingConfig{
			Domain:             getStringOrDefault("voting.domain", "@udd.cl"),
			MaxGeneration:      getIntOrDefault("voting.maxGeneration", 5),
			SessionIdleTimeout: getDurationOrDefault("session.idleTimeout", 2*time.Hour),
		},
		EmailConfig: EmailConfig{
			Provider: getStringOrDefault("email.provider", EmailProviderEmailJS),
			EmailJS: mail.EmailJSConfig{
				ServiceID:  viper.GetString("email.serviceId"),
				TemplateID: viper.GetString("email.templateId"),
				PublicKey:  viper.GetString("email.publicKey"),
				PrivateKey: viper.GetString("email.privateKey"),
				Endpoint:   viper.GetString("email.endpoint"),
				FromName:   viper.GetString("email.fromName"),
			},
		},
		AdminConfig: AdminConfig{
			Token:  viper.GetString("admin.token"),
			Emails: getStringSlice("admin.emails"),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

// getStringSlice accepts both a YAML list and a comma separated env value.
func getStringSlice(name string) []string {
	var out []string
	for _, v := range viper.GetStringSlice(name) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getBoolOrDefault(name string, def bool) bool {
	if viper.IsSet(name) {
		v := viper.GetBool(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getDurationOrDefault(name string, def time.Duration) time.Duration {
	if viper.IsSet(name) {
		v := viper.GetDuration(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
