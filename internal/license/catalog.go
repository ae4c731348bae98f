package license

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	apperrors "alqcore/internal/errors"
)

// Plan is an immutable catalog entry describing the entitlements a tier
// ships with. Loaded once at process start, never mutated.
type Plan struct {
	ID             string           `yaml:"id" json:"id"`
	Name           string           `yaml:"name" json:"name"`
	Tier           int              `yaml:"tier" json:"tier"`
	Type           Type             `yaml:"type" json:"type"`
	Amount         int64            `yaml:"amount" json:"amount"` // minor units
	Currency       string           `yaml:"currency" json:"currency"`
	Interval       string           `yaml:"interval" json:"interval"`
	TrialDays      int              `yaml:"trial_days" json:"trial_days,omitempty"`
	MaxActivations int              `yaml:"max_activations" json:"max_activations"`
	Limits         map[string]int64 `yaml:"limits" json:"limits"`
	Features       []string         `yaml:"features" json:"features"`
	Agents         []string         `yaml:"agents" json:"agents"`
}

// Agent is an immutable catalog entry for an automation agent. Premium
// agents are purchased as add-ons; the rest are gated by plan tier.
type Agent struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Tier    int    `yaml:"tier" json:"tier"`
	Premium bool   `yaml:"premium" json:"premium"`
}

// Catalog is the read-only plan/agent lookup table.
type Catalog struct {
	plans  map[string]*Plan
	agents map[string]*Agent
}

type catalogFile struct {
	Plans  []*Plan  `yaml:"plans"`
	Agents []*Agent `yaml:"agents"`
}

// DefaultCatalog returns the built-in plan and agent set.
func DefaultCatalog() *Catalog {
	plans := []*Plan{
		{
			ID: "trial", Name: "Trial", Tier: 0, Type: TypeTrial,
			Amount: 0, Currency: "USD", Interval: "",
			TrialDays: 14, MaxActivations: 1,
			Limits: map[string]int64{
				LimitExecutionsPerMonth: 100,
				LimitAPICallsPerMonth:   1000,
				LimitAICallsPerMonth:    50,
				LimitStorageBytes:       1 << 30,
				LimitRobots:             1,
				LimitAgents:             3,
			},
			Features: []string{"editor", "scheduler"},
			Agents:   []string{"web-scraper", "form-filler", "file-mover"},
		},
		{
			ID: "starter", Name: "Starter", Tier: 1, Type: TypeSubscription,
			Amount: 4900, Currency: "USD", Interval: "month",
			MaxActivations: 2,
			Limits: map[string]int64{
				LimitExecutionsPerMonth: 2000,
				LimitAPICallsPerMonth:   20000,
				LimitAICallsPerMonth:    500,
				LimitStorageBytes:       10 << 30,
				LimitRobots:             3,
				LimitAgents:             8,
			},
			Features: []string{"editor", "scheduler", "api-access"},
			Agents: []string{"web-scraper", "form-filler", "file-mover",
				"mail-sender", "spreadsheet", "pdf-extractor", "http-client", "db-connector"},
		},
		{
			ID: "professional", Name: "Professional", Tier: 2, Type: TypeSubscription,
			Amount: 19900, Currency: "USD", Interval: "month",
			MaxActivations: 5,
			Limits: map[string]int64{
				LimitExecutionsPerMonth: 20000,
				LimitAPICallsPerMonth:   200000,
				LimitAICallsPerMonth:    5000,
				LimitStorageBytes:       100 << 30,
				LimitRobots:             10,
				LimitAgents:             20,
			},
			Features: []string{"editor", "scheduler", "api-access", "queues", "audit-log"},
			Agents: []string{"web-scraper", "form-filler", "file-mover",
				"mail-sender", "spreadsheet", "pdf-extractor", "http-client", "db-connector",
				"erp-bridge", "ocr-reader", "queue-worker"},
		},
		{
			ID: "enterprise", Name: "Enterprise", Tier: 3, Type: TypeSubscription,
			Amount: 99900, Currency: "USD", Interval: "month",
			MaxActivations: 25,
			Limits: map[string]int64{
				LimitExecutionsPerMonth: Unlimited,
				LimitAPICallsPerMonth:   Unlimited,
				LimitAICallsPerMonth:    Unlimited,
				LimitStorageBytes:       Unlimited,
				LimitRobots:             Unlimited,
				LimitAgents:             Unlimited,
			},
			Features: []string{"editor", "scheduler", "api-access", "queues",
				"audit-log", "sso", "priority-support"},
			Agents: nil, // limits.agents == Unlimited grants all
		},
	}

	agents := []*Agent{
		{ID: "web-scraper", Name: "Web Scraper", Tier: 0},
		{ID: "form-filler", Name: "Form Filler", Tier: 0},
		{ID: "file-mover", Name: "File Mover", Tier: 0},
		{ID: "mail-sender", Name: "Mail Sender", Tier: 1},
		{ID: "spreadsheet", Name: "Spreadsheet", Tier: 1},
		{ID: "pdf-extractor", Name: "PDF Extractor", Tier: 1},
		{ID: "http-client", Name: "HTTP Client", Tier: 1},
		{ID: "db-connector", Name: "DB Connector", Tier: 1},
		{ID: "erp-bridge", Name: "ERP Bridge", Tier: 2},
		{ID: "ocr-reader", Name: "OCR Reader", Tier: 2},
		{ID: "queue-worker", Name: "Queue Worker", Tier: 2},
		{ID: "ai-copilot", Name: "AI Copilot", Tier: 2, Premium: true},
		{ID: "doc-intelligence", Name: "Document Intelligence", Tier: 2, Premium: true},
		{ID: "voice-agent", Name: "Voice Agent", Tier: 3, Premium: true},
	}

	return buildCatalog(plans, agents)
}

// LoadCatalog reads a YAML catalog file. Entries replace the defaults
// wholesale; an empty section falls back to the built-ins.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	defaults := DefaultCatalog()
	plans := file.Plans
	if len(plans) == 0 {
		for _, p := range defaults.plans {
			plans = append(plans, p)
		}
	}
	agents := file.Agents
	if len(agents) == 0 {
		for _, a := range defaults.agents {
			agents = append(agents, a)
		}
	}

	for _, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("parse catalog: plan with empty id")
		}
		if p.MaxActivations <= 0 {
			return nil, fmt.Errorf("parse catalog: plan %q needs max_activations > 0", p.ID)
		}
	}

	return buildCatalog(plans, agents), nil
}

func buildCatalog(plans []*Plan, agents []*Agent) *Catalog {
	c := &Catalog{
		plans:  make(map[string]*Plan, len(plans)),
		agents: make(map[string]*Agent, len(agents)),
	}
	for _, p := range plans {
		c.plans[p.ID] = p
	}
	for _, a := range agents {
		c.agents[a.ID] = a
	}
	return c
}

// Plan looks up a plan by ID.
func (c *Catalog) Plan(id string) (*Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidPlan, id)
	}
	return p, nil
}

// Agent looks up an agent by ID.
func (c *Catalog) Agent(id string) (*Agent, bool) {
	a, ok := c.agents[id]
	return a, ok
}

// Includes reports whether the plan's included agent list contains id.
func (p *Plan) Includes(agentID string) bool {
	for _, a := range p.Agents {
		if a == agentID {
			return true
		}
	}
	return false
}
