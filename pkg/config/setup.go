package pkg

import (
	"fmt"
	"strings"
	"time"

	"github.com/ChokeGuy/money-bridge/workflow"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	PendingModeSimulated = "simulated"
	PendingModePolling   = "polling"

	TokenTypeJWT    = "jwt"
	TokenTypePaseto = "paseto"

	EmailProviderGmail = "gmail"
	EmailProviderSES   = "ses"
)

// Config is the configuration for the application
type Config struct {
	ENV                 string        `mapstructure:"ENV"`
	HttpServerAddress   string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	LedgerApiUrl        string        `mapstructure:"LEDGER_API_URL"`
	LedgerTimeout       time.Duration `mapstructure:"LEDGER_TIMEOUT"`
	TokenType           string        `mapstructure:"TOKEN_TYPE"`
	SymetricKey         string        `mapstructure:"SYMMETRIC_KEY"`
	PendingMode         string        `mapstructure:"PENDING_MODE"`
	PendingCeiling      time.Duration `mapstructure:"PENDING_CEILING"`
	PendingMinDuration  time.Duration `mapstructure:"PENDING_MIN_DURATION"`
	PendingPollInterval time.Duration `mapstructure:"PENDING_POLL_INTERVAL"`
	ReviewThreshold     string        `mapstructure:"REVIEW_THRESHOLD"`
	WorkflowIdleTTL     time.Duration `mapstructure:"WORKFLOW_IDLE_TTL"`
	SupportEmail        string        `mapstructure:"SUPPORT_EMAIL"`
	SupportPhone        string        `mapstructure:"SUPPORT_PHONE"`
	RedisAddress        string        `mapstructure:"REDIS_ADDRESS"`
	EmailProvider       string        `mapstructure:"EMAIL_PROVIDER"`
	EmailSenderName     string        `mapstructure:"EMAIL_SENDER_NAME"`
	EmailSenderAddress  string        `mapstructure:"EMAIL_SENDER_ADDRESS"`
	EmailSenderPassword string        `mapstructure:"EMAIL_SENDER_PASSWORD"`
	AWSRegion           string        `mapstructure:"AWS_REGION"`
	AWSAcessKeyID       string        `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey        string        `mapstructure:"AWS_SECRET_ACCESS_KEY"`
}

func setDefaults() {
	viper.SetDefault("ENV", "development")
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("LEDGER_TIMEOUT", 10*time.Second)
	viper.SetDefault("TOKEN_TYPE", TokenTypeJWT)
	viper.SetDefault("PENDING_MODE", PendingModeSimulated)
	viper.SetDefault("PENDING_CEILING", 30*time.Second)
	viper.SetDefault("PENDING_MIN_DURATION", 2*time.Second)
	viper.SetDefault("PENDING_POLL_INTERVAL", time.Second)
	viper.SetDefault("REVIEW_THRESHOLD", "0")
	viper.SetDefault("WORKFLOW_IDLE_TTL", workflow.DefaultIdleTTL)
	viper.SetDefault("SUPPORT_EMAIL", "support@moneytransfer.com")
	viper.SetDefault("SUPPORT_PHONE", "+18005551234")
	viper.SetDefault("EMAIL_PROVIDER", EmailProviderGmail)
}

// LoadConfig loads the configuration from the file
func LoadConfig(path string) (config Config, err error) {
	if path == "" {
		path = "." // Default to current directory if no path is provided
	}
	viper.AddConfigPath(path)
	viper.SetConfigName(".env") // Set the config name to ".env" without the extension
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	err = config.Validate()
	return
}

// Validate checks settings that would leave the workflow unable to settle
func (c Config) Validate() error {
	if strings.TrimSpace(c.LedgerApiUrl) == "" {
		return fmt.Errorf("LEDGER_API_URL is required")
	}

	switch c.PendingMode {
	case PendingModeSimulated, PendingModePolling:
	default:
		return fmt.Errorf("unsupported PENDING_MODE %q", c.PendingMode)
	}

	if c.PendingCeiling <= 0 {
		return fmt.Errorf("PENDING_CEILING must be positive")
	}
	if c.PendingMinDuration < 0 || c.PendingMinDuration >= c.PendingCeiling {
		return fmt.Errorf("PENDING_MIN_DURATION must be shorter than PENDING_CEILING")
	}
	if c.PendingMode == PendingModePolling && c.PendingPollInterval <= 0 {
		return fmt.Errorf("PENDING_POLL_INTERVAL must be positive in polling mode")
	}

	if _, err := c.ReviewThresholdAmount(); err != nil {
		return err
	}

	switch c.TokenType {
	case TokenTypeJWT, TokenTypePaseto:
	default:
		return fmt.Errorf("unsupported TOKEN_TYPE %q", c.TokenType)
	}

	switch c.EmailProvider {
	case EmailProviderGmail, EmailProviderSES:
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.EmailProvider)
	}

	return nil
}

// ReviewThresholdAmount parses REVIEW_THRESHOLD. Zero disables the threshold.
func (c Config) ReviewThresholdAmount() (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.ReviewThreshold)
	if raw == "" {
		return decimal.Zero, nil
	}

	threshold, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid REVIEW_THRESHOLD: %w", err)
	}
	if threshold.IsNegative() {
		return decimal.Zero, fmt.Errorf("REVIEW_THRESHOLD cannot be negative")
	}

	return threshold, nil
}

// PendingConfig builds the bounds of the pending phase. It assumes Validate passed.
func (c Config) PendingConfig() workflow.PendingConfig {
	threshold, _ := c.ReviewThresholdAmount()

	mode := workflow.PendingSimulated
	if c.PendingMode == PendingModePolling {
		mode = workflow.PendingPolling
	}

	return workflow.PendingConfig{
		Mode:            mode,
		Ceiling:         c.PendingCeiling,
		MinDuration:     c.PendingMinDuration,
		PollInterval:    c.PendingPollInterval,
		ReviewThreshold: threshold,
	}
}

func (c Config) Support() workflow.Support {
	return workflow.Support{Email: c.SupportEmail, Phone: c.SupportPhone}
}

// IsDevelopment reports whether the app runs locally
func (c Config) IsDevelopment() bool {
	return c.ENV == "development"
}
