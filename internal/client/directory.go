package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gravadigital/election-portal/internal/ballot"
	"github.com/gravadigital/election-portal/internal/tabulation"
)

type positionDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Order           int    `json:"order"`
	MinSelectable   int    `json:"minSelectable"`
	MaxSelectable   int    `json:"maxSelectable"`
	NumberOfWinners int    `json:"numberOfWinners"`
}

type candidateDTO struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PositionID  string `json:"positionId"`
	PortraitRef string `json:"portraitRef"`
	PortraitURL string `json:"portraitUrl"`
	Position    *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"position"`
}

// ActivePositions lists the active positions in voting order.
func (c *Client) ActivePositions(ctx context.Context) ([]ballot.Position, error) {
	query := url.Values{"status": {"active"}, "sortBy": {"order"}}

	var dtos []positionDTO
	if _, err := c.do(ctx, http.MethodGet, "/api/positions", query, nil, &dtos); err != nil {
		return nil, err
	}

	positions := make([]ballot.Position, 0, len(dtos))
	for _, d := range dtos {
		positions = append(positions, ballot.Position{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			Order:           d.Order,
			MinSelectable:   d.MinSelectable,
			MaxSelectable:   d.MaxSelectable,
			NumberOfWinners: d.NumberOfWinners,
		})
	}
	return positions, nil
}

// Candidates lists every candidate. Resolved portrait URLs win over raw
// references.
func (c *Client) Candidates(ctx context.Context) ([]ballot.Candidate, error) {
	var dtos []candidateDTO
	if _, err := c.do(ctx, http.MethodGet, "/api/candidates", nil, nil, &dtos); err != nil {
		return nil, err
	}

	candidates := make([]ballot.Candidate, 0, len(dtos))
	for _, d := range dtos {
		candidate := ballot.Candidate{
			ID:          d.ID,
			FirstName:   d.FirstName,
			LastName:    d.LastName,
			PositionID:  d.PositionID,
			PortraitRef: d.PortraitRef,
		}
		if d.PortraitURL != "" {
			candidate.PortraitRef = d.PortraitURL
		}
		if d.Position != nil {
			if candidate.PositionID == "" {
				candidate.PositionID = d.Position.ID
			}
			candidate.PositionName = d.Position.Name
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// VotingOpen reports whether the election accepts ballots.
func (c *Client) VotingOpen(ctx context.Context) (bool, error) {
	var out struct {
		IsVotingOpen bool `json:"isVotingOpen"`
	}
	_, err := c.do(ctx, http.MethodGet, "/api/election/status", nil, nil, &out)
	return out.IsVotingOpen, err
}

// HasVoted reports whether the token's voter already voted.
func (c *Client) HasVoted(ctx context.Context) (bool, error) {
	var out struct {
		HasVoted bool `json:"hasVoted"`
	}
	_, err := c.do(ctx, http.MethodGet, "/api/votes/user-status", nil, nil, &out)
	return out.HasVoted, err
}

// CastVote submits the ballot and returns the server's confirmation.
func (c *Client) CastVote(ctx context.Context, payload ballot.Payload) (string, error) {
	return c.do(ctx, http.MethodPost, "/api/votes/cast", nil, payload, nil)
}

// Results fetches the latest results snapshot.
func (c *Client) Results(ctx context.Context) (tabulation.Snapshot, error) {
	var snapshot tabulation.Snapshot
	_, err := c.do(ctx, http.MethodGet, "/api/votes/results", nil, nil, &snapshot)
	return snapshot, err
}

// Sources bundles the client as every ballot collaborator.
func (c *Client) Sources() ballot.Sources {
	return ballot.Sources{Election: c, Votes: c, Positions: c, Candidates: c}
}
