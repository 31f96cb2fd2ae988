package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

var (
	processFile     string
	processSubject  string
	processBody     string
	processTags     []string
	processTier     string
	processName     string
	processTicketID string
	processJSON     bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the triage pipeline on a ticket",
	Long: `Analyses one support ticket and prints the resulting suggestion:
classification, knowledge matches, a drafted reply, and the calibrated
confidence recommendation.

The ticket is read from --file (JSON) or assembled from the --subject
and --description flags.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processFile, "file", "f", "", "ticket JSON file")
	processCmd.Flags().StringVarP(&processSubject, "subject", "s", "", "ticket subject")
	processCmd.Flags().StringVarP(&processBody, "description", "d", "", "ticket description")
	processCmd.Flags().StringSliceVar(&processTags, "tag", nil, "ticket tag (repeatable)")
	processCmd.Flags().StringVar(&processTier, "tier", string(domain.TierStandard), "requester tier (standard, premium, enterprise)")
	processCmd.Flags().StringVar(&processName, "requester", "", "requester name for reply personalisation")
	processCmd.Flags().StringVar(&processTicketID, "ticket-id", "", "external ticket identifier")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the suggestion as JSON")
	rootCmd.AddCommand(processCmd)
}

// ticketFile is the on-disk ticket shape accepted by --file.
type ticketFile struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	AttachmentCount int       `json:"attachment_count"`
	RequesterTier   string    `json:"requester_tier"`
	RequesterName   string    `json:"requester_name"`
	Category        string    `json:"category"`
	Priority        string    `json:"priority"`
	CreatedAt       time.Time `json:"created_at"`
}

func runProcess(cmd *cobra.Command, _ []string) error {
	if triageService == nil {
		return errors.New("triage service not configured")
	}

	ticket, err := buildTicket()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := triageService.ReindexKnowledge(ctx); err != nil {
		return fmt.Errorf("build knowledge index: %w", err)
	}

	suggestion, err := triageService.ProcessTicket(ctx, ticket)
	if err != nil {
		return fmt.Errorf("process ticket: %w", err)
	}

	if processJSON {
		return outputSuggestionJSON(cmd, suggestion)
	}
	return outputSuggestionText(cmd, suggestion)
}

func buildTicket() (domain.Ticket, error) {
	if processFile != "" {
		data, err := os.ReadFile(processFile)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("read ticket file: %w", err)
		}
		var tf ticketFile
		if err := json.Unmarshal(data, &tf); err != nil {
			return domain.Ticket{}, fmt.Errorf("parse ticket file: %w", err)
		}
		created := tf.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		return domain.Ticket{
			ID:              tf.ID,
			Subject:         tf.Subject,
			Description:     tf.Description,
			Tags:            tf.Tags,
			AttachmentCount: tf.AttachmentCount,
			RequesterTier:   domain.RequesterTier(tf.RequesterTier),
			RequesterName:   tf.RequesterName,
			Category:        tf.Category,
			Priority:        domain.Priority(tf.Priority),
			CreatedAt:       created,
		}, nil
	}

	if processSubject == "" && processBody == "" {
		return domain.Ticket{}, errors.New("provide --file or at least one of --subject and --description")
	}
	return domain.Ticket{
		ID:            processTicketID,
		Subject:       processSubject,
		Description:   processBody,
		Tags:          processTags,
		RequesterTier: domain.RequesterTier(processTier),
		RequesterName: processName,
		CreatedAt:     time.Now(),
	}, nil
}

func outputSuggestionJSON(cmd *cobra.Command, s *domain.Suggestion) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal suggestion: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSuggestionText(cmd *cobra.Command, s *domain.Suggestion) error {
	cmd.Printf("Suggestion %s (ticket %s)\n", s.ID, s.TicketID)
	cmd.Println()

	c := s.Classification
	cmd.Printf("Classification: %s (%.2f), priority %s, route to %s\n",
		c.Category.Value, c.Category.Confidence, c.Priority.Value, c.Routing.Department)
	if len(c.Duplicates) > 0 {
		ids := make([]string, 0, len(c.Duplicates))
		for _, d := range c.Duplicates {
			ids = append(ids, fmt.Sprintf("%s (%.2f)", d.TicketID, d.Similarity))
		}
		cmd.Printf("Possible duplicates: %s\n", strings.Join(ids, ", "))
	}
	cmd.Println()

	if len(s.KnowledgeMatches) == 0 {
		cmd.Println("No knowledge articles matched.")
	} else {
		cmd.Println("Knowledge matches:")
		for i, m := range s.KnowledgeMatches {
			cmd.Printf("  [%d] %s (%.2f, %s)\n", i+1, m.Title, m.Score, m.SourceStrategy)
		}
	}
	cmd.Println()

	cmd.Printf("Draft (%s, %.2f):\n", s.Draft.Strategy, s.Draft.Confidence)
	cmd.Println(indent(s.Draft.Content, "  "))
	cmd.Println()

	cmd.Printf("Confidence: %.2f calibrated (%.2f raw) -> %s\n",
		s.Confidence.Calibrated, s.Confidence.Overall, s.Confidence.Recommendation)
	if s.Degraded() {
		cmd.Printf("Degraded: %s\n", strings.Join(s.Annotations, "; "))
	}
	cmd.Printf("Status: %s\n", s.Status)
	return nil
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
