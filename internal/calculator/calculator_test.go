package calculator

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/donation-impact/internal/config"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/mathutil"
)

func TestComputeScenarios(t *testing.T) {
	calc := Default()

	tests := []struct {
		name        string
		state       State
		amount      string
		placeholder bool
		reference   float64
		units       float64
		lives       float64
		probability float64
		nets        string
		livesText   string
		percent     string
		headline    Headline
	}{
		{
			name:      "One hundred dollars",
			state:     State{Raw: "100", Currency: currency.USD},
			amount:    "100",
			reference: 100, units: 50, lives: 0.02436, probability: 0.0241,
			nets: "50", livesText: "0.02", percent: "2.4",
			headline: HeadlineProbability,
		},
		{
			name:        "Empty input in pounds uses the default amount",
			state:       State{Raw: "", Currency: currency.GBP},
			amount:      "100",
			placeholder: true,
			reference:   137, units: 68.5, lives: 0.03336, probability: 0.0328,
			nets: "69", livesText: "0.03", percent: "3.3",
			headline: HeadlineProbability,
		},
		{
			name:      "Ten thousand euros",
			state:     State{Raw: "10000", Currency: currency.EUR},
			amount:    "10000",
			reference: 11800, units: 5900, lives: 2.8738, probability: 0.9435,
			nets: "5900", livesText: "2.9", percent: "94",
			headline: HeadlineLives,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Compute(tt.state)
			if err != nil {
				t.Fatalf("Compute() unexpected error = %v", err)
			}
			if result.Amount != tt.amount {
				t.Errorf("Amount = %q, expected %q", result.Amount, tt.amount)
			}
			if result.Placeholder != tt.placeholder {
				t.Errorf("Placeholder = %v, expected %v", result.Placeholder, tt.placeholder)
			}
			if !mathutil.WithinTolerance(result.ReferenceAmount, tt.reference, 1e-9) {
				t.Errorf("ReferenceAmount = %v, expected %v", result.ReferenceAmount, tt.reference)
			}
			if !mathutil.WithinTolerance(result.Estimate.UnitsPurchased, tt.units, 1e-9) {
				t.Errorf("UnitsPurchased = %v, expected %v", result.Estimate.UnitsPurchased, tt.units)
			}
			if !mathutil.WithinTolerance(result.Estimate.ExpectedLivesSaved, tt.lives, 1e-4) {
				t.Errorf("ExpectedLivesSaved = %v, expected %v", result.Estimate.ExpectedLivesSaved, tt.lives)
			}
			if !mathutil.WithinTolerance(result.Estimate.ProbabilityAtLeastOne, tt.probability, 1e-4) {
				t.Errorf("ProbabilityAtLeastOne = %v, expected %v", result.Estimate.ProbabilityAtLeastOne, tt.probability)
			}
			if result.Nets != tt.nets {
				t.Errorf("Nets = %q, expected %q", result.Nets, tt.nets)
			}
			if result.Lives != tt.livesText {
				t.Errorf("Lives = %q, expected %q", result.Lives, tt.livesText)
			}
			if result.Probability != tt.percent {
				t.Errorf("Probability = %q, expected %q", result.Probability, tt.percent)
			}
			if result.Headline != tt.headline {
				t.Errorf("Headline = %q, expected %q", result.Headline, tt.headline)
			}
			if result.DonationURL == "" {
				t.Error("expected a donation URL")
			}
			if result.FormattedAmount == "" {
				t.Error("expected a formatted amount")
			}
		})
	}
}

func TestEditRejectsInvalidInputWithoutChangingState(t *testing.T) {
	state := InitialState()

	state, err := state.Edit("12.3")
	if err != nil {
		t.Fatalf("Edit(12.3) unexpected error = %v", err)
	}

	for _, raw := range []string{"12.345", "abc", "-5", "1.2.3"} {
		next, err := state.Edit(raw)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Edit(%q) error = %v, expected ErrInvalidInput", raw, err)
		}
		if next != state {
			t.Errorf("Edit(%q) changed state to %+v", raw, next)
		}
	}

	if state.Raw != "12.3" {
		t.Errorf("Raw = %q, expected 12.3", state.Raw)
	}
}

func TestSelectReturnsNewState(t *testing.T) {
	initial := InitialState()
	selected := initial.Select(currency.GBP)

	if initial.Currency != currency.USD {
		t.Errorf("initial state mutated: %+v", initial)
	}
	if selected.Currency != currency.GBP {
		t.Errorf("Select(GBP) = %+v", selected)
	}
}

func TestApply(t *testing.T) {
	calc := Default()
	state := InitialState()

	state, result, err := calc.Apply(state, "50")
	if err != nil {
		t.Fatalf("Apply(50) unexpected error = %v", err)
	}
	if result.Nets != "25" {
		t.Errorf("Nets = %q, expected 25", result.Nets)
	}

	next, rejected, err := calc.Apply(state, "50.001")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Apply(50.001) error = %v, expected ErrInvalidInput", err)
	}
	if next != state {
		t.Errorf("rejected edit changed state to %+v", next)
	}
	if rejected.Nets != "25" {
		t.Errorf("rejected edit should keep the previous result, got Nets = %q", rejected.Nets)
	}
}

func TestComputeUnknownCurrency(t *testing.T) {
	_, err := Default().Compute(State{Raw: "1", Currency: "JPY"})
	if !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Errorf("Compute() error = %v, expected ErrUnknownCurrency", err)
	}
}

func TestSentencesAreSingularAtOne(t *testing.T) {
	calc := Default()

	result, err := calc.Compute(State{Raw: "2", Currency: currency.USD})
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	if !strings.Contains(result.NetsSentence, "1 insecticide treated bed net,") {
		t.Errorf("NetsSentence = %q, expected singular net", result.NetsSentence)
	}

	result, err = calc.Compute(State{Raw: "4106", Currency: currency.USD})
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	if result.Headline != HeadlineLives {
		t.Errorf("Headline = %q, expected lives at exactly the cost of a life", result.Headline)
	}
	if result.LivesSentence != "you would save (on average) 1 person's life" {
		t.Errorf("LivesSentence = %q", result.LivesSentence)
	}
	if !strings.Contains(result.NetsSentence, "2053 insecticide treated bed nets") {
		t.Errorf("NetsSentence = %q, expected plural nets", result.NetsSentence)
	}
	if !strings.Contains(result.NetsSentence, "approximately 3695 people") {
		t.Errorf("NetsSentence = %q, expected 3695 people", result.NetsSentence)
	}
}

func TestProbabilitySentence(t *testing.T) {
	result, err := Default().Compute(State{Raw: "100", Currency: currency.USD})
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	expected := "there'd be a 2.4% chance your donation would save a life"
	if result.ProbabilitySentence != expected {
		t.Errorf("ProbabilitySentence = %q, expected %q", result.ProbabilitySentence, expected)
	}
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	conf := config.Defaults()
	conf.Estimator.CostPerLifeSaved = 0

	if _, err := New(conf); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("New() error = %v, expected ErrInvalidConfiguration", err)
	}
}

func TestCustomConfiguration(t *testing.T) {
	conf := config.Defaults()
	conf.Estimator.CostPerLifeSaved = 100
	conf.Estimator.DefaultAmount = "10"

	calc, err := New(conf)
	if err != nil {
		t.Fatalf("New() unexpected error = %v", err)
	}
	result, err := calc.Compute(InitialState())
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	if result.Amount != "10" {
		t.Errorf("Amount = %q, expected 10", result.Amount)
	}
	if result.Lives != "0.1" {
		t.Errorf("Lives = %q, expected 0.1", result.Lives)
	}
}

func TestCurrencies(t *testing.T) {
	infos := Default().Currencies()
	if len(infos) != 3 {
		t.Fatalf("expected 3 currencies, got %d", len(infos))
	}
	if infos[0].Code != currency.USD || infos[1].Code != currency.EUR || infos[2].Code != currency.GBP {
		t.Errorf("unexpected currency order %+v", infos)
	}
	if infos[2].Symbol != "£" {
		t.Errorf("GBP symbol = %q, expected £", infos[2].Symbol)
	}
	if infos[1].Rate != "1.18" {
		t.Errorf("EUR rate = %q, expected 1.18", infos[1].Rate)
	}
}

func TestComputeVeryLargeAmount(t *testing.T) {
	calc := Default()

	state, err := InitialState().Select(currency.GBP).Edit("99999999999999999999")
	if err != nil {
		t.Fatalf("Edit() unexpected error = %v", err)
	}
	result, err := calc.Compute(state)
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}

	if result.Estimate.PeopleProtected < 1e20 {
		t.Errorf("PeopleProtected = %v, expected more than 1e20", result.Estimate.PeopleProtected)
	}
	if strings.Contains(result.NetsSentence, "-") {
		t.Errorf("NetsSentence contains a negative count: %q", result.NetsSentence)
	}
	if !strings.Contains(result.NetsSentence, "approximately 1233") {
		t.Errorf("NetsSentence = %q, expected about 1.233e20 people", result.NetsSentence)
	}
	if result.Headline != HeadlineLives {
		t.Errorf("Headline = %q, expected %q", result.Headline, HeadlineLives)
	}
}
