// Package calculator wires the numeric core into one pure pipeline. The
// presentation layer holds the only mutable reference to a State and calls
// Compute on every input event.
package calculator

import (
	"fmt"
	"strings"

	"github.com/iwvelando/donation-impact/internal/config"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/format"
	"github.com/iwvelando/donation-impact/pkg/impact"
	"github.com/iwvelando/donation-impact/pkg/input"
	"github.com/iwvelando/donation-impact/pkg/mathutil"
)

// ErrInvalidInput is returned by State.Edit for rejected text.
var ErrInvalidInput = input.ErrInvalidInput

// Headline identifies which message leads the rendered result.
type Headline string

const (
	// HeadlineProbability leads with the chance of saving a life.
	HeadlineProbability Headline = "probability"
	// HeadlineLives leads with the expected number of lives saved.
	HeadlineLives Headline = "lives"
)

// State is the complete user input. It is a value: every event produces a new one.
type State struct {
	Raw      string
	Currency currency.Code
}

// InitialState is the state before any input: empty text, default currency.
func InitialState() State {
	return State{Raw: "", Currency: currency.Default}
}

// Edit returns the state with raw as its text. Rejected text returns the
// receiver unchanged together with an error wrapping ErrInvalidInput.
func (s State) Edit(raw string) (State, error) {
	if !input.Valid(raw) {
		return s, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	s.Raw = raw
	return s, nil
}

// Select returns the state with code as the selected currency.
func (s State) Select(code currency.Code) State {
	s.Currency = code
	return s
}

// CurrencyInfo is the presentation data of one supported currency.
type CurrencyInfo struct {
	Code        currency.Code `json:"code"`
	Rate        string        `json:"rate"`
	Locale      string        `json:"locale"`
	Symbol      string        `json:"symbol"`
	DonationURL string        `json:"donationUrl"`

	formatter format.CurrencyFormatter
}

// Result is everything the presentation layer renders for one State.
type Result struct {
	Raw             string          `json:"raw"`
	Currency        currency.Code   `json:"currency"`
	Amount          string          `json:"amount"`
	Placeholder     bool            `json:"placeholder"`
	FormattedAmount string          `json:"formattedAmount"`
	ReferenceAmount float64         `json:"referenceAmount"`
	Estimate        impact.Estimate `json:"estimate"`

	Nets        string   `json:"nets"`
	Lives       string   `json:"lives"`
	Probability string   `json:"probability"`
	Headline    Headline `json:"headline"`

	NetsSentence        string `json:"netsSentence"`
	LivesSentence       string `json:"livesSentence"`
	ProbabilitySentence string `json:"probabilitySentence"`

	DonationURL string `json:"donationUrl"`
}

// Calculator holds the immutable configuration of the pipeline and is safe
// for concurrent use.
type Calculator struct {
	normalizer input.Normalizer
	rates      currency.RateTable
	estimator  impact.Estimator
	currencies map[currency.Code]CurrencyInfo
}

// New builds a Calculator from a validated configuration.
func New(conf *config.Configuration) (*Calculator, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	normalizer, err := conf.BuildNormalizer()
	if err != nil {
		return nil, err
	}
	rates, err := conf.BuildRateTable()
	if err != nil {
		return nil, err
	}
	estimator, err := conf.BuildEstimator()
	if err != nil {
		return nil, err
	}

	currencies := make(map[currency.Code]CurrencyInfo, len(conf.Currencies))
	for _, code := range currency.Codes() {
		cur, ok := conf.Currency(code)
		if !ok {
			return nil, fmt.Errorf("%w: currency %s is not configured", config.ErrInvalidConfiguration, code)
		}
		formatter, err := format.NewCurrencyFormatter(cur.Locale)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfiguration, err)
		}
		currencies[code] = CurrencyInfo{
			Code:        code,
			Rate:        rates.Rate(code).String(),
			Locale:      formatter.Locale().String(),
			Symbol:      formatter.Symbol(code.Unit()),
			DonationURL: cur.DonationURL,
			formatter:   formatter,
		}
	}

	return &Calculator{
		normalizer: normalizer,
		rates:      rates,
		estimator:  estimator,
		currencies: currencies,
	}, nil
}

// Default returns a Calculator using the built-in configuration.
func Default() *Calculator {
	calc, err := New(config.Defaults())
	if err != nil {
		panic(fmt.Sprintf("built-in configuration is invalid: %v", err))
	}
	return calc
}

// Currencies returns the supported currencies in display order.
func (c *Calculator) Currencies() []CurrencyInfo {
	infos := make([]CurrencyInfo, 0, len(c.currencies))
	for _, code := range currency.Codes() {
		infos = append(infos, c.currencies[code])
	}
	return infos
}

// Compute runs the whole pipeline for state. It fails only when state holds
// text that Edit would have rejected or an unsupported currency.
func (c *Calculator) Compute(state State) (Result, error) {
	info, ok := c.currencies[state.Currency]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", currency.ErrUnknownCurrency, state.Currency)
	}

	amount, err := c.normalizer.Normalize(state.Raw)
	if err != nil {
		return Result{}, err
	}

	ref := c.rates.ToReference(amount.Value, state.Currency)
	refFloat, _ := ref.Float64()
	est := c.estimator.Estimate(refFloat)

	nets := format.Magnitude(est.UnitsPurchased)
	lives := format.Magnitude(est.ExpectedLivesSaved)
	probability := format.Percentage(est.ProbabilityAtLeastOne)

	headline := HeadlineProbability
	if c.estimator.SavesAtLeastOneLife(est) {
		headline = HeadlineLives
	}

	return Result{
		Raw:                 state.Raw,
		Currency:            state.Currency,
		Amount:              amount.String(),
		Placeholder:         amount.Placeholder,
		FormattedAmount:     info.formatter.Format(state.Currency.Unit(), amount.Float64()),
		ReferenceAmount:     mathutil.Round(refFloat),
		Estimate:            est,
		Nets:                nets,
		Lives:               lives,
		Probability:         probability,
		Headline:            headline,
		NetsSentence:        netsSentence(nets, format.Magnitude(est.PeopleProtected)),
		LivesSentence:       livesSentence(lives),
		ProbabilitySentence: probabilitySentence(probability),
		DonationURL:         info.DonationURL,
	}, nil
}

// Apply edits state with raw and computes the result. A rejected edit keeps
// the previous state, which is returned along with its result.
func (c *Calculator) Apply(state State, raw string) (State, Result, error) {
	next, editErr := state.Edit(raw)
	result, err := c.Compute(next)
	if err != nil {
		return state, Result{}, err
	}
	return next, result, editErr
}

func netsSentence(nets, people string) string {
	noun := "insecticide treated bed nets"
	if nets == "1" {
		noun = "insecticide treated bed net"
	}
	return fmt.Sprintf("you'd pay for %s %s, which would protect approximately %s people from malaria for 3 to 5 years",
		nets, noun, people)
}

func livesSentence(lives string) string {
	noun := "people's lives"
	if lives == "1" {
		noun = "person's life"
	}
	return strings.Join([]string{"you would save (on average)", lives, noun}, " ")
}

func probabilitySentence(probability string) string {
	return fmt.Sprintf("there'd be a %s%% chance your donation would save a life", probability)
}
