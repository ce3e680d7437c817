package appsheet

import (
	"context"

	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/models"
	"github.com/Monticola-data/backend-kalendar/internal/normalize"
)

// Remote table column names.
const (
	colRowID          = "Row ID"
	colTitle          = "Title"
	colDate           = "Date"
	colTeam           = "Team"
	colSent           = "Sent"
	colDone           = "Done"
	colHandedOff      = "Handed Off"
	colDetail         = "Detail"
	colSecurityFilter = "SECURITY_filter"
	colAssignedUsers  = "Assigned Users"
	colName           = "Name"
	colHex            = "HEX"
)

// TeamRef is one entry of the team join map built from the remote teams
// table. It is independent of the event-store team collection.
type TeamRef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ExtendedProps carries the workflow fields of a projected event.
type ExtendedProps struct {
	Sent           bool     `json:"sent"`
	Done           bool     `json:"done"`
	HandedOff      bool     `json:"handedOff"`
	Detail         string   `json:"detail"`
	SecurityFilter []string `json:"securityFilter"`
	AssignedUsers  []string `json:"assignedUsers"`
}

// Event is one job row projected into the calendar wire shape.
type Event struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Start         string        `json:"start"`
	Color         string        `json:"color"`
	TeamID        string        `json:"teamId"`
	ExtendedProps ExtendedProps `json:"extendedProps"`
}

// FetchEnrichedEvents performs the two-table join: it loads the teams table
// into an id -> {name, color} map, then projects every job row into an
// Event, normalizing dates, flags and identifier lists and resolving the
// color through the team map (fixed fallback when the team id is unknown).
func (c *Client) FetchEnrichedEvents(ctx context.Context) ([]Event, map[string]TeamRef, error) {
	teamRows, err := c.FindRows(ctx, c.cfg.TeamsTable, []string{colRowID, colName, colHex})
	if err != nil {
		return nil, nil, err
	}

	teamMap := make(map[string]TeamRef, len(teamRows))
	for _, row := range teamRows {
		id := normalize.String(row[colRowID], "")
		if id == "" {
			continue
		}
		teamMap[id] = TeamRef{
			Name:  normalize.String(row[colName], "Unassigned"),
			Color: normalize.String(row[colHex], models.FallbackColor),
		}
	}

	jobRows, err := c.FindRows(ctx, c.cfg.JobsTable, []string{
		colRowID, colTitle, colDate, colTeam, colSent, colDone,
		colHandedOff, colDetail, colSecurityFilter, colAssignedUsers,
	})
	if err != nil {
		return nil, nil, err
	}

	events := make([]Event, 0, len(jobRows))
	for _, row := range jobRows {
		teamID := normalize.String(row[colTeam], "")
		color := models.FallbackColor
		if ref, ok := teamMap[teamID]; ok && ref.Color != "" {
			color = ref.Color
		}

		events = append(events, Event{
			ID:     normalize.String(row[colRowID], ""),
			Title:  normalize.String(row[colTitle], "Untitled"),
			Start:  normalize.Date(normalize.String(row[colDate], "")),
			Color:  color,
			TeamID: teamID,
			ExtendedProps: ExtendedProps{
				Sent:           normalize.Flag(row[colSent]),
				Done:           normalize.Flag(row[colDone]),
				HandedOff:      normalize.Flag(row[colHandedOff]),
				Detail:         normalize.String(row[colDetail], ""),
				SecurityFilter: normalize.Set(row[colSecurityFilter]),
				AssignedUsers:  normalize.Set(row[colAssignedUsers]),
			},
		})
	}

	c.logger.Info("Fetched enriched events from remote table",
		zap.Int("teams", len(teamMap)),
		zap.Int("events", len(events)),
	)
	return events, teamMap, nil
}
