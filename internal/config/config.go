// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// ErrInvalidConfiguration wraps every validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Configuration holds all configuration for donation-impact.
type Configuration struct {
	Estimator  EstimatorConfig  `yaml:"estimator"`
	Currencies []CurrencyConfig `yaml:"currencies"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// EstimatorConfig holds the cost constants of the intervention, in the
// reference currency.
type EstimatorConfig struct {
	UnitCost         float64 `yaml:"unitCost"`
	CostPerLifeSaved float64 `yaml:"costPerLifeSaved"`
	PeoplePerUnit    float64 `yaml:"peoplePerUnit"`
	DefaultAmount    string  `yaml:"defaultAmount"`
}

// CurrencyConfig overrides the rate, display locale and donation link of one
// supported currency. Rates are decimal strings so they convert exactly.
type CurrencyConfig struct {
	Code        string `yaml:"code"`
	Rate        string `yaml:"rate"`
	Locale      string `yaml:"locale"`
	DonationURL string `yaml:"donationUrl"`
}

// Defaults returns the built-in configuration.
func Defaults() *Configuration {
	return &Configuration{
		Estimator: EstimatorConfig{
			UnitCost:         constants.DefaultUnitCost,
			CostPerLifeSaved: constants.DefaultCostPerLifeSaved,
			PeoplePerUnit:    constants.DefaultPeoplePerUnit,
			DefaultAmount:    constants.DefaultAmount,
		},
		Currencies: DefaultCurrencies(),
	}
}

// DefaultCurrencies returns the built-in currency table.
func DefaultCurrencies() []CurrencyConfig {
	return []CurrencyConfig{
		{Code: constants.CurrencyUSD, Rate: constants.DefaultRateUSD, Locale: constants.DefaultLocaleUSD, DonationURL: constants.DefaultDonationURLUSD},
		{Code: constants.CurrencyEUR, Rate: constants.DefaultRateEUR, Locale: constants.DefaultLocaleEUR, DonationURL: constants.DefaultDonationURLEUR},
		{Code: constants.CurrencyGBP, Rate: constants.DefaultRateGBP, Locale: constants.DefaultLocaleGBP, DonationURL: constants.DefaultDonationURLGBP},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the built-in defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		}
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Defaults()
	v.SetDefault("estimator.unitCost", defaults.Estimator.UnitCost)
	v.SetDefault("estimator.costPerLifeSaved", defaults.Estimator.CostPerLifeSaved)
	v.SetDefault("estimator.peoplePerUnit", defaults.Estimator.PeoplePerUnit)
	v.SetDefault("estimator.defaultAmount", defaults.Estimator.DefaultAmount)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.mergeCurrencyDefaults()
	return &configuration, nil
}

// mergeCurrencyDefaults fills every supported currency that the file left out
// and every empty field of the ones it did list.
func (c *Configuration) mergeCurrencyDefaults() {
	configured := make(map[string]int, len(c.Currencies))
	for i := range c.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Currencies[i].Code))
		c.Currencies[i].Code = code
		configured[code] = i
	}

	for _, def := range DefaultCurrencies() {
		i, ok := configured[def.Code]
		if !ok {
			c.Currencies = append(c.Currencies, def)
			continue
		}
		cur := &c.Currencies[i]
		if strings.TrimSpace(cur.Rate) == "" {
			cur.Rate = def.Rate
		}
		if strings.TrimSpace(cur.Locale) == "" {
			cur.Locale = def.Locale
		}
		if strings.TrimSpace(cur.DonationURL) == "" {
			cur.DonationURL = def.DonationURL
		}
	}
}

// Currency returns the entry for code, if configured.
func (c *Configuration) Currency(code currency.Code) (CurrencyConfig, bool) {
	for _, cur := range c.Currencies {
		if cur.Code == code.String() {
			return cur, true
		}
	}
	return CurrencyConfig{}, false
}

// Validate returns an error wrapping ErrInvalidConfiguration when a value
// cannot be used.
func (c *Configuration) Validate() error {
	var problems []string

	if _, err := c.BuildEstimator(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.BuildNormalizer(); err != nil {
		problems = append(problems, err.Error())
	}

	seen := make(map[string]bool, len(c.Currencies))
	for _, cur := range c.Currencies {
		code, err := currency.ParseCode(cur.Code)
		if err != nil || cur.Code == "" {
			problems = append(problems, fmt.Sprintf("currency %q is not supported", cur.Code))
			continue
		}
		if seen[code.String()] {
			problems = append(problems, fmt.Sprintf("currency %s is configured more than once", code))
		}
		seen[code.String()] = true
		if _, err := decimal.NewFromString(strings.TrimSpace(cur.Rate)); err != nil {
			problems = append(problems, fmt.Sprintf("rate for %s is not a number: %q", code, cur.Rate))
		}
		if _, err := language.Parse(cur.Locale); err != nil {
			problems = append(problems, fmt.Sprintf("locale for %s is invalid: %q", code, cur.Locale))
		}
	}
	if len(problems) == 0 {
		if _, err := c.BuildRateTable(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// Warnings returns messages for values that are usable but suspicious.
func (c *Configuration) Warnings() []string {
	validator := validation.ConfigValidator{
		UnitCost:         c.Estimator.UnitCost,
		CostPerLifeSaved: c.Estimator.CostPerLifeSaved,
		Currencies:       make([]validation.CurrencyConfig, 0, len(c.Currencies)),
	}
	for _, cur := range c.Currencies {
		validator.Currencies = append(validator.Currencies, validation.CurrencyConfig{
			Code:        cur.Code,
			Rate:        cur.Rate,
			DonationURL: cur.DonationURL,
		})
	}
	return validator.ValidateAll()
}

// WriteExample writes the default configuration to path as YAML, for
// operators who want a starting point.
func WriteExample(path string) error {
	data, err := MarshalYAML(Defaults())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write example configuration: %w", err)
	}
	return nil
}
