package config

const (
	defaultColumn          = "wallet"
	defaultMinLength       = 20
	defaultNullSentinel    = "nan"
	defaultWorkers         = 4
	defaultThreshold       = 2
	defaultThresholdPolicy = ThresholdPolicyReject
	defaultOutputFormat    = OutputFormatTable
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"
	defaultConfigPath      = "~/.config/walletoverlap/config.toml"
	projectConfigName      = "walletoverlap.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Input: Input{
			Column:        defaultColumn,
			MinLength:     defaultMinLength,
			NullSentinels: []string{defaultNullSentinel},
			Workers:       defaultWorkers,
		},
		Analysis: Analysis{
			Threshold:       defaultThreshold,
			ThresholdPolicy: defaultThresholdPolicy,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
