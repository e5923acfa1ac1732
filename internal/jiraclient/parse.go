package jiraclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// API payload shapes. Timestamps stay strings so one malformed record skips
// without failing the whole page decode. Story points arrive under either
// the named estimate field or the classic custom field.
type (
	apiSearchPage struct {
		Issues []apiTicket `json:"issues"`
		Total  int         `json:"total"`
	}

	apiTicket struct {
		ID        string       `json:"id"`
		Key       string       `json:"key"`
		Fields    apiFields    `json:"fields"`
		Changelog apiChangelog `json:"changelog"`
	}

	apiFields struct {
		Summary            string     `json:"summary"`
		Description        string     `json:"description"`
		Status             *apiStatus `json:"status"`
		Assignee           *apiPerson `json:"assignee"`
		Creator            *apiPerson `json:"creator"`
		Created            string     `json:"created"`
		Updated            string     `json:"updated"`
		ResolutionDate     string     `json:"resolutiondate"`
		StoryPointEstimate *float64   `json:"storyPointEstimate"`
		StoryPointsLegacy  *float64   `json:"customfield_10016"`
	}

	apiStatus struct {
		Name string `json:"name"`
	}

	apiPerson struct {
		DisplayName string `json:"displayName"`
	}

	apiChangelog struct {
		Histories []apiHistory `json:"histories"`
	}

	apiHistory struct {
		Created string          `json:"created"`
		Author  *apiPerson      `json:"author"`
		Items   []apiChangeItem `json:"items"`
	}

	apiChangeItem struct {
		Field      string `json:"field"`
		FromString string `json:"fromString"`
		ToString   string `json:"toString"`
	}

	apiCommentPage struct {
		Comments []apiComment `json:"comments"`
	}

	apiComment struct {
		ID      string     `json:"id"`
		Author  *apiPerson `json:"author"`
		Body    string     `json:"body"`
		Created string     `json:"created"`
	}
)

// parseTicket validates one search hit. Tickets with neither assignee nor
// creator survive parsing; the extractor drops them later.
func parseTicket(raw *apiTicket, baseURL string) (schema.Ticket, error) {
	if raw.Key == "" {
		return schema.Ticket{}, errors.New("ticket without key")
	}
	created, err := parseJiraTime(raw.Fields.Created)
	if err != nil {
		return schema.Ticket{}, fmt.Errorf("ticket %s: %w", raw.Key, err)
	}
	updated, err := parseJiraTime(raw.Fields.Updated)
	if err != nil {
		return schema.Ticket{}, fmt.Errorf("ticket %s: %w", raw.Key, err)
	}

	ticket := schema.Ticket{
		ID:          raw.ID,
		Key:         raw.Key,
		Summary:     raw.Fields.Summary,
		Description: raw.Fields.Description,
		Status:      statusOf(raw.Fields.Status),
		Assignee:    displayNameOf(raw.Fields.Assignee),
		Creator:     displayNameOf(raw.Fields.Creator),
		StoryPoints: storyPointsOf(&raw.Fields),
		CreatedAt:   created,
		UpdatedAt:   updated,
		URL:         baseURL + "/browse/" + raw.Key,
	}
	if raw.Fields.ResolutionDate != "" {
		resolved, err := parseJiraTime(raw.Fields.ResolutionDate)
		if err != nil {
			return schema.Ticket{}, fmt.Errorf("ticket %s: %w", raw.Key, err)
		}
		ticket.ResolvedAt = &resolved
	}
	return ticket, nil
}

// parseComment validates one comment payload.
func parseComment(raw *apiComment, ticketKey string) (schema.TicketComment, error) {
	if raw.ID == "" {
		return schema.TicketComment{}, fmt.Errorf("comment without id on %s", ticketKey)
	}
	created, err := parseJiraTime(raw.Created)
	if err != nil {
		return schema.TicketComment{}, fmt.Errorf("comment %s on %s: %w", raw.ID, ticketKey, err)
	}
	return schema.TicketComment{
		ID:        raw.ID,
		TicketKey: ticketKey,
		Author:    displayNameOf(raw.Author),
		Body:      raw.Body,
		CreatedAt: created,
	}, nil
}

// collectTransitions extracts status changes from a ticket changelog.
// Histories with an unparseable timestamp are skipped and counted.
func collectTransitions(changelog *apiChangelog, ticketKey string) ([]schema.Transition, int) {
	var transitions []schema.Transition
	var skipped int
	for i := range changelog.Histories {
		history := &changelog.Histories[i]
		at, err := parseJiraTime(history.Created)
		if err != nil {
			contract.LogWarn("Skipping changelog entry", fmt.Errorf("ticket %s: %w", ticketKey, err))
			skipped++
			continue
		}
		for _, item := range history.Items {
			if item.Field != "status" {
				continue
			}
			transitions = append(transitions, schema.Transition{
				TicketKey:  ticketKey,
				Author:     displayNameOf(history.Author),
				FromStatus: item.FromString,
				ToStatus:   item.ToString,
				At:         at,
			})
		}
	}
	return transitions, skipped
}

// statusOf unwraps the optional status object.
func statusOf(status *apiStatus) string {
	if status == nil {
		return ""
	}
	return status.Name
}

// displayNameOf unwraps the optional person object.
func displayNameOf(person *apiPerson) string {
	if person == nil {
		return ""
	}
	return person.DisplayName
}

// storyPointsOf resolves the estimate from whichever field the instance uses.
func storyPointsOf(fields *apiFields) float64 {
	if fields.StoryPointEstimate != nil {
		return *fields.StoryPointEstimate
	}
	if fields.StoryPointsLegacy != nil {
		return *fields.StoryPointsLegacy
	}
	return 0
}

// parseJiraTime parses Jira's millisecond-offset timestamps, falling back
// to RFC3339.
func parseJiraTime(value string) (time.Time, error) {
	if t, err := time.Parse(jiraTimeFormat, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
	}
	return t, nil
}
