package mcp

import (
	"context"
	"errors"
	"fmt"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"

	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"
	"parliament-interests/internal/metrics"
	"parliament-interests/internal/transport/params"
)

var (
	errMissingMemberID = errors.New("member_id is required and must be an integer")
	errMissingPartyID  = errors.New("party_id is required and must be an integer")
)

type tool struct {
	definition models.Tool
	call       func(ctx context.Context, args map[string]any) (any, error)
}

func (t tool) run(ctx context.Context, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	result, err := t.call(ctx, args)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordSearch("mcp."+t.definition.Name, status)
	return result, err
}

type toolset struct {
	ordered []tool
	byName  map[string]tool
}

func (ts *toolset) definitions() []models.Tool {
	out := make([]models.Tool, 0, len(ts.ordered))
	for _, t := range ts.ordered {
		out = append(out, t.definition)
	}
	return out
}

func (ts *toolset) lookup(name string) (tool, bool) {
	t, ok := ts.byName[name]
	return t, ok
}

func newToolset(members *membersdomain.Service, interests *interestsdomain.Service) *toolset {
	ordered := []tool{
		{
			definition: models.Tool{
				Name:        "search_members",
				Description: "Search current members of parliament by name, party, house and membership dates.",
				InputSchema: schema(map[string]models.ParameterSchema{
					"name":                     text("Case-insensitive part of the member's display name."),
					"party":                    text("Case-insensitive part of the party name."),
					"house":                    text("1 or commons for the House of Commons, 2 or lords for the House of Lords."),
					"membership_started_since": text("Only members whose membership started on or after this date (YYYY-MM-DD)."),
					"membership_ended_since":   text("Only members whose membership ended on or before this date (YYYY-MM-DD)."),
					"skip":                     integer("Number of results to skip.", false),
					"take":                     integer("Maximum number of results.", false),
				}),
			},
			call: func(ctx context.Context, args map[string]any) (any, error) {
				return members.Search(ctx, membersdomain.SearchFilter{
					Name:                   params.Text(args["name"]),
					Party:                  params.Text(args["party"]),
					House:                  params.House(args["house"]),
					MembershipStartedSince: params.Date(args["membership_started_since"]),
					MembershipEndedSince:   params.Date(args["membership_ended_since"]),
					Skip:                   params.Int(args["skip"], 0),
					Take:                   params.Int(args["take"], 0),
				})
			},
		},
		{
			definition: models.Tool{
				Name:        "search_members_with_grouped_interest_values",
				Description: "List members with the total monetary value of their registered interests, highest first.",
				InputSchema: schema(map[string]models.ParameterSchema{
					"member_name":      text("Case-insensitive part of the member's display name."),
					"party":            text("Case-insensitive part of the party name."),
					"house":            text("1 or commons for the House of Commons, 2 or lords for the House of Lords."),
					"published_before": text("Only count interests published on or before this date (YYYY-MM-DD)."),
					"published_after":  text("Only count interests published on or after this date (YYYY-MM-DD)."),
					"skip":             integer("Number of results to skip.", false),
					"take":             integer("Maximum number of results.", false),
				}),
			},
			call: func(ctx context.Context, args map[string]any) (any, error) {
				return interests.SearchTotals(ctx, interestsdomain.SearchFilter{
					MemberName:      params.Text(args["member_name"]),
					Party:           params.Text(args["party"]),
					House:           params.House(args["house"]),
					PublishedBefore: params.Date(args["published_before"]),
					PublishedAfter:  params.Date(args["published_after"]),
					Skip:            params.Int(args["skip"], 0),
					Take:            params.Int(args["take"], 0),
				})
			},
		},
		{
			definition: models.Tool{
				Name:        "search_member_interests",
				Description: "List one member's registered interests with category, fields and monetary value.",
				InputSchema: schema(map[string]models.ParameterSchema{
					"member_id":        integer("Unique id of the member.", true),
					"published_after":  text("Only interests published on or after this date (YYYY-MM-DD)."),
					"published_before": text("Only interests published on or before this date (YYYY-MM-DD)."),
				}),
			},
			call: func(ctx context.Context, args map[string]any) (any, error) {
				memberID := params.Int64(args["member_id"])
				if memberID == nil {
					return nil, errMissingMemberID
				}
				result, err := interests.MemberInterests(ctx, *memberID,
					params.Date(args["published_after"]),
					params.Date(args["published_before"]),
				)
				if errors.Is(err, membersdomain.ErrMemberNotFound) {
					return nil, fmt.Errorf("member %d: %w", *memberID, err)
				}
				return result, err
			},
		},
		{
			definition: models.Tool{
				Name:        "search_party",
				Description: "Look up a political party by its unique id.",
				InputSchema: schema(map[string]models.ParameterSchema{
					"party_id": integer("Unique id of the party.", true),
				}),
			},
			call: func(ctx context.Context, args map[string]any) (any, error) {
				partyID := params.Int64(args["party_id"])
				if partyID == nil {
					return nil, errMissingPartyID
				}
				return members.GetParty(ctx, *partyID)
			},
		},
	}

	byName := make(map[string]tool, len(ordered))
	for _, t := range ordered {
		byName[t.definition.Name] = t
	}
	return &toolset{ordered: ordered, byName: byName}
}

func schema(properties map[string]models.ParameterSchema) models.InputSchema {
	return models.InputSchema{Type: "object", Properties: properties}
}

func text(description string) models.ParameterSchema {
	return models.ParameterSchema{Type: "string", Description: description}
}

func integer(description string, required bool) models.ParameterSchema {
	zero := 0.0
	return models.ParameterSchema{Type: "integer", Description: description, Required: required, Minimum: &zero}
}
