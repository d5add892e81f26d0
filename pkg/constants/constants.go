// Package constants provides shared constants for the donation-impact application.
package constants

// Estimator defaults, taken from the latest GiveWell figures for the Against
// Malaria Foundation. Deployers override them in config.yaml.
const (
	// DefaultUnitCost is the cost of one insecticide treated bed net in the
	// reference currency.
	DefaultUnitCost = 2.0
	// DefaultCostPerLifeSaved is the reference-currency cost of saving one life.
	DefaultCostPerLifeSaved = 4106.0
	// DefaultPeoplePerUnit is the number of people one net protects.
	DefaultPeoplePerUnit = 1.8
	// DefaultAmount is used when the input is empty.
	DefaultAmount = "100"
)

// Currency codes
const (
	// CurrencyUSD is also the reference currency.
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	// ReferenceCurrency is the currency all amounts are converted to.
	ReferenceCurrency = CurrencyUSD
)

// Static exchange rates into the reference currency. These are illustrative
// configuration values, not market data.
const (
	DefaultRateUSD = "1"
	DefaultRateEUR = "1.18"
	DefaultRateGBP = "1.37"
)

// Display locales per currency
const (
	DefaultLocaleUSD = "en-US"
	DefaultLocaleEUR = "en-DK"
	DefaultLocaleGBP = "en-GB"
)

// Donation links per currency
const (
	DefaultDonationURLUSD = "https://www.paypal.com/us/fundraiser/charity/113632"
	DefaultDonationURLEUR = "https://www.againstmalaria.com/donate.aspx"
	DefaultDonationURLGBP = "https://www.paypal.com/gb/fundraiser/charity/3181936"
)

// Numeric constants
const (
	// DecimalPlaces is the precision of a normalized amount.
	DecimalPlaces = 2
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
	// MaxRateDeviation is how far a rate may drift from 1 before a warning.
	MaxRateDeviation = 10.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"
	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. DONATION_IMPACT_ESTIMATOR_UNITCOST.
	EnvPrefix = "DONATION_IMPACT"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"
	// DefaultMaxRequestSizeBytes bounds JSON request bodies (16 KB)
	DefaultMaxRequestSizeBytes int64 = 16 * 1024
	// DefaultReadTimeout is the default HTTP read timeout
	DefaultReadTimeout = "10s"
	// DefaultShutdownTimeout is how long in-flight requests get on shutdown
	DefaultShutdownTimeout = "5s"
	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"
	// MetricsNamespace prefixes every Prometheus collector.
	MetricsNamespace = "donation_impact"
)
