package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/uscre/auth-service/internal/flagx"
	"github.com/uscre/auth-service/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, non-empty fields are copied into the runtime
// Config struct.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	SessionTokenTTL    timex.Duration `json:"session_token_ttl"`
	VerificationMaxAge timex.Duration `json:"verification_max_age"`
	BcryptCost         int            `json:"bcrypt_cost"`
	FrontendURL        string         `json:"frontend_url"`

	MailServer     string `json:"mail_server"`
	MailPort       int    `json:"mail_port"`
	MailUsername   string `json:"mail_username"`
	MailPassword   string `json:"mail_password"`
	MailSenderName string `json:"mail_sender_name"`

	GitHubClientID     string `json:"github_client_id"`
	GitHubClientSecret string `json:"github_client_secret"`
	GitHubRedirectURI  string `json:"github_redirect_uri"`

	GoogleClientID     string `json:"google_client_id"`
	GoogleClientSecret string `json:"google_client_secret"`
	GoogleRedirectURI  string `json:"google_redirect_uri"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. On success, only fields
// present in the file override defaults; zero values are skipped so partial
// config files compose with defaults and flags. If the file cannot be read
// or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.SessionTokenTTL, c.SessionTokenTTL.Duration)
	setDuration(&config.VerificationMaxAge, c.VerificationMaxAge.Duration)
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.FrontendURL, c.FrontendURL)

	setString(&config.MailServer, c.MailServer)
	setInt(&config.MailPort, c.MailPort)
	setString(&config.MailUsername, c.MailUsername)
	setString(&config.MailPassword, c.MailPassword)
	setString(&config.MailSenderName, c.MailSenderName)

	setString(&config.GitHubClientID, c.GitHubClientID)
	setString(&config.GitHubClientSecret, c.GitHubClientSecret)
	setString(&config.GitHubRedirectURI, c.GitHubRedirectURI)

	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleRedirectURI, c.GoogleRedirectURI)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
