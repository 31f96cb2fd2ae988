package services

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/logger"
)

// urgencyDenominator normalises the urgency keyword count: five or
// more occurrences saturate the score at 1.0.
const urgencyDenominator = 5.0

// maxMetadataKeywords caps the keyword list in text metadata.
const maxMetadataKeywords = 10

// Classifier performs category, priority, routing, and duplicate
// analysis for a single ticket. It is a pure function of the rule
// tables except for the duplicate cache, which is shared and
// concurrency safe.
type Classifier struct {
	rules      *RuleSet
	sentiment  *sentimentScorer
	duplicates *DuplicateDetector
}

// NewClassifier creates a classifier over the given rule tables.
func NewClassifier(rules *RuleSet, duplicates *DuplicateDetector) *Classifier {
	return &Classifier{
		rules:      rules,
		sentiment:  newSentimentScorer(rules.SentimentLexicon),
		duplicates: duplicates,
	}
}

// Classify analyses one ticket. It never fails: empty or malformed
// text degrades to the documented defaults.
func (c *Classifier) Classify(ticket domain.Ticket) domain.ClassificationResult {
	text := strings.ToLower(strings.TrimSpace(ticket.Text()))
	stemmed := stemText(text)

	result := domain.ClassificationResult{
		Category: c.classifyCategory(text),
		Metadata: c.textMetadata(ticket),
	}
	result.Priority = c.classifyPriority(text, stemmed, ticket.RequesterTier)
	result.Routing = c.route(text, result.Category.Value, result.Priority.Value)
	result.Duplicates = c.findDuplicates(ticket.ID, stemmed)

	logger.Debug("ticket classified",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", result.Category.Value),
		zap.String("priority", string(result.Priority.Value)),
		zap.Int("duplicates", len(result.Duplicates)))
	return result
}

// classifyCategory scores every category by the fraction of its
// keywords present in the text and picks the argmax. Ties favour the
// general category; no matches at all default to general with zero
// confidence.
func (c *Classifier) classifyCategory(text string) domain.CategoryResult {
	best := domain.CategoryResult{Value: GeneralCategory, Confidence: 0}

	categories := make([]string, 0, len(c.rules.CategoryKeywords))
	for cat := range c.rules.CategoryKeywords {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		keywords := c.rules.CategoryKeywords[cat]
		if len(keywords) == 0 {
			continue
		}
		var matched []string
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		score := float64(len(matched)) / float64(len(keywords))
		if score > best.Confidence || (score == best.Confidence && cat == GeneralCategory) {
			best = domain.CategoryResult{
				Value:           cat,
				Confidence:      score,
				MatchedKeywords: matched,
			}
		}
	}
	return best
}

// classifyPriority walks the decision ladder: urgency first, then
// sentiment, then requester tier, then calm-ticket demotion, with
// medium as the default.
func (c *Classifier) classifyPriority(text string, stemmed []string, tier domain.RequesterTier) domain.PriorityResult {
	hits := 0
	for _, kw := range c.rules.UrgencyKeywords {
		hits += strings.Count(text, kw)
	}
	urgency := float64(hits) / urgencyDenominator
	if urgency > 1 {
		urgency = 1
	}
	sentiment := c.sentiment.score(stemmed)

	result := domain.PriorityResult{
		UrgencyScore: urgency,
		Sentiment:    sentiment,
	}

	switch {
	case urgency > 0.7:
		result.Value = domain.PriorityUrgent
		result.Confidence = 0.9
		result.Reasoning = append(result.Reasoning, "high urgency keyword density")
	case urgency > 0.4:
		result.Value = domain.PriorityHigh
		result.Confidence = 0.8
		result.Reasoning = append(result.Reasoning, "urgency keywords present")
	case sentiment < -0.5:
		result.Value = domain.PriorityHigh
		result.Confidence = 0.8
		result.Reasoning = append(result.Reasoning, "strongly negative sentiment")
	case tier.Elevated():
		result.Value = domain.PriorityHigh
		result.Confidence = 0.7
		result.Reasoning = append(result.Reasoning, "elevated requester tier")
	case urgency < 0.2 && sentiment > 0:
		result.Value = domain.PriorityLow
		result.Confidence = 0.8
		result.Reasoning = append(result.Reasoning, "calm tone, no urgency indicators")
	default:
		result.Value = domain.PriorityMedium
		result.Confidence = 0.5
		result.Reasoning = append(result.Reasoning, "no strong priority signal")
	}
	return result
}

// route looks up the static rule for the category and then scans for
// department-indicating keywords that override it.
func (c *Classifier) route(text, category string, priority domain.Priority) domain.RoutingResult {
	rule := c.rules.RoutingFor(category)
	result := domain.RoutingResult{
		SuggestedAgentGroups: rule.AgentGroups,
		Department:           rule.Department,
		EscalationLevel:      rule.EscalationFloor,
		Reasoning:            []string{"routing rule for category " + category},
	}

	departments := make([]string, 0, len(c.rules.DepartmentKeywords))
	for dept := range c.rules.DepartmentKeywords {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	for _, dept := range departments {
		if dept == result.Department {
			continue
		}
		for _, kw := range c.rules.DepartmentKeywords[dept] {
			if strings.Contains(text, kw) {
				result.Department = dept
				result.Reasoning = append(result.Reasoning,
					"department keyword \""+kw+"\" indicates "+dept)
				break
			}
		}
	}

	if priority == domain.PriorityUrgent && result.EscalationLevel < 1 {
		result.EscalationLevel = 1
		result.Reasoning = append(result.Reasoning, "escalation raised for urgent priority")
	}
	return result
}

// findDuplicates compares against the time-windowed cache and records
// this ticket for future comparisons. The result is sorted for
// deterministic output.
func (c *Classifier) findDuplicates(ticketID string, stemmed []string) []domain.DuplicateMatch {
	if c.duplicates == nil {
		return nil
	}
	matches := c.duplicates.Check(ticketID, tokenSet(stemmed))
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].TicketID < matches[j].TicketID
	})
	return matches
}

// textMetadata captures surface properties of the ticket text.
func (c *Classifier) textMetadata(ticket domain.Ticket) domain.TextMetadata {
	raw := strings.TrimSpace(ticket.Subject + " " + ticket.Description)
	words := strings.Fields(raw)
	meta := domain.TextMetadata{
		WordCount:      len(words),
		HasAttachments: ticket.HasAttachments(),
		Entities:       extractEntities(raw),
		Keywords:       topKeywords(stemText(raw), maxMetadataKeywords),
	}
	if len(words) > 0 {
		meta.Language = "en"
	}
	return meta
}
