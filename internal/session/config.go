package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/yeogirlyun/pokertrainer/internal/bot"
	"github.com/yeogirlyun/pokertrainer/poker"
)

// Config is the complete training session configuration.
type Config struct {
	Session    Settings         `hcl:"session,block"`
	Strategies []StrategyConfig `hcl:"strategy,block"`
	Bots       []BotConfig      `hcl:"bot,block"`
}

// Settings contains session-level configuration.
type Settings struct {
	SmallBlind      int    `hcl:"small_blind,optional"`
	BigBlind        int    `hcl:"big_blind,optional"`
	StartingStack   int    `hcl:"starting_stack,optional"`
	Hands           int    `hcl:"hands,optional"`
	Seed            int64  `hcl:"seed,optional"`
	HumanName       string `hcl:"human_name,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
	HandLogDir      string `hcl:"hand_log_dir,optional"`
	LogLevel        string `hcl:"log_level,optional"`
}

// StrategyConfig defines a named bot strategy.
type StrategyConfig struct {
	Name            string   `hcl:"name,label"`
	RaiseCategories []string `hcl:"raise_categories,optional"`
	CallCategories  []string `hcl:"call_categories,optional"`
	BetHand         string   `hcl:"bet_hand,optional"`
	CallHand        string   `hcl:"call_hand,optional"`
	OpenRaiseBB     int      `hcl:"open_raise_bb,optional"`
	BetPotRatio     float64  `hcl:"bet_pot_ratio,optional"`
}

// BotConfig seats one bot in the session.
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
}

// DefaultConfig returns a playable two-bot session.
func DefaultConfig() *Config {
	return &Config{
		Session: Settings{
			SmallBlind:      5,
			BigBlind:        10,
			StartingStack:   1000,
			Hands:           10,
			DecisionTimeout: "30s",
			LogLevel:        "info",
		},
		Bots: []BotConfig{
			{Name: "tag", Strategy: "tight-aggressive"},
			{Name: "station", Strategy: "calling-station"},
		},
	}
}

// LoadConfig loads session configuration from an HCL file. A missing
// file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Session.SmallBlind == 0 {
		c.Session.SmallBlind = 5
	}
	if c.Session.BigBlind == 0 {
		c.Session.BigBlind = c.Session.SmallBlind * 2
	}
	if c.Session.StartingStack == 0 {
		c.Session.StartingStack = c.Session.BigBlind * 100
	}
	if c.Session.Hands == 0 {
		c.Session.Hands = 10
	}
	if c.Session.DecisionTimeout == "" {
		c.Session.DecisionTimeout = "30s"
	}
	if c.Session.LogLevel == "" {
		c.Session.LogLevel = "info"
	}
}

// Validate checks the configuration before a session starts.
func (c *Config) Validate() error {
	if c.Session.SmallBlind <= 0 || c.Session.BigBlind < c.Session.SmallBlind {
		return fmt.Errorf("bad blinds %d/%d", c.Session.SmallBlind, c.Session.BigBlind)
	}
	if c.Session.StartingStack < c.Session.BigBlind {
		return fmt.Errorf("starting stack %d cannot cover the big blind", c.Session.StartingStack)
	}
	if _, err := c.DecisionTimeout(); err != nil {
		return err
	}

	seats := len(c.Bots)
	if c.Session.HumanName != "" {
		seats++
	}
	if seats < 2 {
		return fmt.Errorf("need at least 2 seats, have %d", seats)
	}

	for _, b := range c.Bots {
		if _, err := c.ResolveStrategy(b.Strategy); err != nil {
			return fmt.Errorf("bot %s: %w", b.Name, err)
		}
	}
	return nil
}

// DecisionTimeout parses the human decision timeout.
func (c *Config) DecisionTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Session.DecisionTimeout)
	if err != nil {
		return 0, fmt.Errorf("bad decision_timeout %q: %w", c.Session.DecisionTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("decision_timeout must be positive, got %s", d)
	}
	return d, nil
}

// ResolveStrategy looks up a strategy by name: config blocks first,
// then the built-in presets.
func (c *Config) ResolveStrategy(name string) (bot.Strategy, error) {
	for _, sc := range c.Strategies {
		if sc.Name == name {
			return sc.build()
		}
	}
	switch name {
	case "tight-aggressive":
		return bot.TightAggressive(), nil
	case "calling-station":
		return bot.CallingStation(), nil
	}
	return bot.Strategy{}, fmt.Errorf("unknown strategy %q", name)
}

func (sc StrategyConfig) build() (bot.Strategy, error) {
	s := bot.Strategy{
		Name:            sc.Name,
		RaiseCategories: make(map[poker.HoleCardCategory]bool),
		CallCategories:  make(map[poker.HoleCardCategory]bool),
		BetHandType:     poker.Pair,
		CallHandType:    poker.Pair,
		OpenRaiseBB:     3,
		BetPotRatio:     0.5,
	}

	for _, raw := range sc.RaiseCategories {
		cat, err := parseCategory(raw)
		if err != nil {
			return bot.Strategy{}, fmt.Errorf("strategy %s: %w", sc.Name, err)
		}
		s.RaiseCategories[cat] = true
	}
	for _, raw := range sc.CallCategories {
		cat, err := parseCategory(raw)
		if err != nil {
			return bot.Strategy{}, fmt.Errorf("strategy %s: %w", sc.Name, err)
		}
		s.CallCategories[cat] = true
	}

	var err error
	if sc.BetHand != "" {
		if s.BetHandType, err = parseHandType(sc.BetHand); err != nil {
			return bot.Strategy{}, fmt.Errorf("strategy %s: %w", sc.Name, err)
		}
	}
	if sc.CallHand != "" {
		if s.CallHandType, err = parseHandType(sc.CallHand); err != nil {
			return bot.Strategy{}, fmt.Errorf("strategy %s: %w", sc.Name, err)
		}
	}
	if sc.OpenRaiseBB != 0 {
		s.OpenRaiseBB = sc.OpenRaiseBB
	}
	if sc.BetPotRatio != 0 {
		s.BetPotRatio = sc.BetPotRatio
	}

	if err := s.Validate(); err != nil {
		return bot.Strategy{}, err
	}
	return s, nil
}

func parseCategory(s string) (poker.HoleCardCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "premium":
		return poker.CategoryPremium, nil
	case "strong":
		return poker.CategoryStrong, nil
	case "medium":
		return poker.CategoryMedium, nil
	case "weak":
		return poker.CategoryWeak, nil
	case "trash":
		return poker.CategoryTrash, nil
	}
	return poker.CategoryUnknown, fmt.Errorf("unknown hand category %q", s)
}

func parseHandType(s string) (poker.HandType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high_card", "high-card":
		return poker.HighCard, nil
	case "pair":
		return poker.Pair, nil
	case "two_pair", "two-pair":
		return poker.TwoPair, nil
	case "three_of_a_kind", "trips", "set":
		return poker.ThreeOfAKind, nil
	case "straight":
		return poker.Straight, nil
	case "flush":
		return poker.Flush, nil
	case "full_house", "full-house":
		return poker.FullHouse, nil
	case "four_of_a_kind", "quads":
		return poker.FourOfAKind, nil
	case "straight_flush", "straight-flush":
		return poker.StraightFlush, nil
	}
	return poker.HighCard, fmt.Errorf("unknown hand type %q", s)
}
