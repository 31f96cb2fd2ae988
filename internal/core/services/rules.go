package services

// RoutingRule gives the routing suggestion for one category.
type RoutingRule struct {
	// AgentGroups are candidate queues for the category.
	AgentGroups []string

	// Department is the owning department.
	Department string

	// EscalationFloor is the minimum escalation level.
	EscalationFloor int
}

// RuleSet holds the classification rule tables. Tables are plain data
// so deployments can load their own and tests can substitute small
// fixture tables.
type RuleSet struct {
	// CategoryKeywords maps each category to its indicator keywords.
	// Matching is lowercased substring containment.
	CategoryKeywords map[string][]string

	// UrgencyKeywords are counted (with multiplicity) to produce the
	// urgency score. Multi-word phrases are allowed.
	UrgencyKeywords []string

	// SentimentLexicon maps words to polarity weights in [-3,3].
	// Keys are stemmed at scorer construction.
	SentimentLexicon map[string]float64

	// Routing maps each category to its routing rule.
	Routing map[string]RoutingRule

	// DepartmentKeywords maps a department to keywords whose presence
	// overrides the category-derived department.
	DepartmentKeywords map[string][]string

	// TroubleshootingSteps maps a category to the step list rendered
	// into template replies.
	TroubleshootingSteps map[string][]string
}

// GeneralCategory is the default category when nothing matches, and
// the tie-break winner when categories score equally.
const GeneralCategory = "general"

// DefaultRules returns the built-in helpdesk rule tables.
func DefaultRules() *RuleSet {
	return &RuleSet{
		CategoryKeywords: map[string][]string{
			"billing": {
				"payment", "invoice", "charge", "refund", "billing",
				"subscription", "price", "credit card", "receipt", "charged",
			},
			"technical": {
				"error", "bug", "crash", "broken", "api", "integration",
				"timeout", "exception", "500", "fails", "not working",
			},
			"account": {
				"password", "login", "sign in", "account", "locked",
				"access", "email address", "two-factor", "reset",
			},
			"shipping": {
				"shipping", "delivery", "tracking", "package", "shipment",
				"courier", "delayed", "arrived",
			},
			GeneralCategory: {
				"question", "help", "information", "how do i", "support",
			},
		},
		UrgencyKeywords: []string{
			"urgent", "urgently", "asap", "immediately", "critical",
			"emergency", "right away", "failed", "payment failed",
			"cannot access", "can't access", "data loss", "security breach",
			"production down", "site down", "outage",
		},
		SentimentLexicon: map[string]float64{
			"great": 3, "excellent": 3, "perfect": 3, "love": 3,
			"good": 2, "happy": 2, "appreciate": 2, "helpful": 2,
			"works": 1, "resolved": 1,
			"slow": -1, "problem": -1, "issue": -1, "confusing": -1,
			"failed": -2, "error": -2, "wrong": -2, "crash": -2,
			"frustrated": -2, "disappointed": -2, "useless": -2,
			"broken": -3, "terrible": -3, "awful": -3, "angry": -3,
			"worst": -3, "unacceptable": -3, "furious": -3,
		},
		Routing: map[string]RoutingRule{
			"billing": {
				AgentGroups:     []string{"billing-l1", "billing-l2"},
				Department:      "billing",
				EscalationFloor: 0,
			},
			"technical": {
				AgentGroups:     []string{"tech-support", "engineering-triage"},
				Department:      "technical",
				EscalationFloor: 1,
			},
			"account": {
				AgentGroups:     []string{"account-support"},
				Department:      "customer-success",
				EscalationFloor: 0,
			},
			"shipping": {
				AgentGroups:     []string{"logistics"},
				Department:      "operations",
				EscalationFloor: 0,
			},
			GeneralCategory: {
				AgentGroups:     []string{"frontline"},
				Department:      "support",
				EscalationFloor: 0,
			},
		},
		DepartmentKeywords: map[string][]string{
			"technical": {"api", "integration", "webhook", "sdk", "endpoint"},
			"billing":   {"payment", "invoice", "charge", "refund"},
		},
		TroubleshootingSteps: map[string][]string{
			"technical": {
				"Clear your browser cache and reload the page",
				"Check our status page for ongoing incidents",
				"Retry the request and note the exact error message",
			},
			"account": {
				"Use the password reset link on the sign-in page",
				"Check your spam folder for the verification email",
			},
			"billing": {
				"Verify the card on file has not expired",
				"Check whether your bank declined the charge",
			},
		},
	}
}

// RoutingFor returns the routing rule for a category, falling back to
// the general rule for unknown categories.
func (r *RuleSet) RoutingFor(category string) RoutingRule {
	if rule, ok := r.Routing[category]; ok {
		return rule
	}
	return r.Routing[GeneralCategory]
}

// StepsFor returns the troubleshooting steps for a category, nil when
// the category has none.
func (r *RuleSet) StepsFor(category string) []string {
	return r.TroubleshootingSteps[category]
}

// sentimentScorer scores text polarity against a stemmed lexicon.
type sentimentScorer struct {
	weights map[string]float64
}

// newSentimentScorer stems the lexicon keys once so lookups match the
// stemmed token stream.
func newSentimentScorer(lexicon map[string]float64) *sentimentScorer {
	weights := make(map[string]float64, len(lexicon))
	for word, w := range lexicon {
		weights[stem(word)] = w
	}
	return &sentimentScorer{weights: weights}
}

// score returns the mean polarity weight of matched tokens, normalised
// to [-1,1]. Text with no lexicon hits scores 0.
func (s *sentimentScorer) score(stemmed []string) float64 {
	var total float64
	matched := 0
	for _, tok := range stemmed {
		if w, ok := s.weights[tok]; ok {
			total += w
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	// Weights span [-3,3], so the mean divided by 3 lands in [-1,1].
	score := total / (maxPolarityWeight * float64(matched))
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

const maxPolarityWeight = 3.0
