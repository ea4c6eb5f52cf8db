package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/validation"
)

// PositionService handles the business logic of positions
type PositionService struct {
	store     election.Store
	validator validation.PositionValidation
	log       *log.Logger
}

// NewPositionService creates a new position service
func NewPositionService(store election.Store) *PositionService {
	return &PositionService{
		store:     store,
		validator: validation.PositionValidation{},
		log:       logger.Service("positions"),
	}
}

// PositionRequest is the body of position create and update requests
type PositionRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Order           int    `json:"order"`
	Status          string `json:"status"`
	MinSelectable   int    `json:"minSelectable"`
	MaxSelectable   int    `json:"maxSelectable" binding:"required"`
	NumberOfWinners int    `json:"numberOfWinners"`
}

func (s *PositionService) validate(req PositionRequest) (election.PositionStatus, error) {
	if err := s.validator.ValidateName(req.Name); err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}
	if err := s.validator.ValidateDescription(req.Description); err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}
	if err := s.validator.ValidateSelectable(req.MinSelectable, req.MaxSelectable); err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}
	if err := s.validator.ValidateWinners(req.NumberOfWinners); err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}
	return parseStatus(req.Status)
}

func parseStatus(raw string) (election.PositionStatus, error) {
	if raw == "" {
		return election.StatusActive, nil
	}
	status, ok := election.PositionStatusFromString(strings.ToLower(raw))
	if !ok {
		return 0, &ValidationError{Message: "status must be active or inactive"}
	}
	return status, nil
}

// List returns positions filtered by status ("" for all) and sorted by
// "order", "name" or creation time.
func (s *PositionService) List(ctx context.Context, status, sortBy string) ([]*election.Position, error) {
	filter := election.PositionFilter{SortBy: sortBy}
	if status != "" {
		st, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}
	return s.store.Positions().List(ctx, filter)
}

// ActivePositions lists active positions in voting order.
func (s *PositionService) ActivePositions(ctx context.Context) ([]*election.Position, error) {
	return s.List(ctx, election.StatusActive.String(), "order")
}

func (s *PositionService) Get(ctx context.Context, id string) (*election.Position, error) {
	positionID, err := validation.ValidateUUID(id, "id")
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	position, err := s.store.Positions().GetByID(ctx, positionID)
	return position, translate(err)
}

func (s *PositionService) Create(ctx context.Context, req PositionRequest) (*election.Position, error) {
	status, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if err := ensureBallotEditable(ctx, s.store); err != nil {
		return nil, err
	}

	position := &election.Position{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Order:           req.Order,
		Status:          status,
		MinSelectable:   req.MinSelectable,
		MaxSelectable:   req.MaxSelectable,
		NumberOfWinners: req.NumberOfWinners,
	}
	if err := s.store.Positions().Create(ctx, position); err != nil {
		return nil, translate(err)
	}

	s.log.Info("Position created", "id", position.ID, "name", position.Name)
	return position, nil
}

func (s *PositionService) Update(ctx context.Context, id string, req PositionRequest) (*election.Position, error) {
	status, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	position, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureBallotEditable(ctx, s.store); err != nil {
		return nil, err
	}

	position.Name = strings.TrimSpace(req.Name)
	position.Description = req.Description
	position.Order = req.Order
	position.Status = status
	position.MinSelectable = req.MinSelectable
	position.MaxSelectable = req.MaxSelectable
	position.NumberOfWinners = req.NumberOfWinners

	if err := s.store.Positions().Update(ctx, position); err != nil {
		return nil, translate(err)
	}
	return position, nil
}

func (s *PositionService) Delete(ctx context.Context, id string) error {
	positionID, err := validation.ValidateUUID(id, "id")
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := ensureBallotEditable(ctx, s.store); err != nil {
		return err
	}
	return translate(s.store.Positions().Delete(ctx, positionID))
}

// CandidateService handles the business logic of candidates
type CandidateService struct {
	store     election.Store
	validator validation.CandidateValidation
	log       *log.Logger
}

// NewCandidateService creates a new candidate service
func NewCandidateService(store election.Store) *CandidateService {
	return &CandidateService{
		store:     store,
		validator: validation.CandidateValidation{},
		log:       logger.Service("candidates"),
	}
}

// CandidateRequest is the body of candidate create and update requests
type CandidateRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PositionID  string `json:"positionId" binding:"required"`
	PortraitRef string `json:"portraitRef"`
}

func (s *CandidateService) validate(req CandidateRequest) (uuid.UUID, error) {
	if err := s.validator.ValidateName(req.FirstName, req.LastName); err != nil {
		return uuid.Nil, &ValidationError{Message: err.Error()}
	}
	if err := s.validator.ValidatePortraitRef(req.PortraitRef); err != nil {
		return uuid.Nil, &ValidationError{Message: err.Error()}
	}
	positionID, err := validation.ValidateUUID(req.PositionID, "positionId")
	if err != nil {
		return uuid.Nil, &ValidationError{Message: err.Error()}
	}
	return positionID, nil
}

// List returns every candidate, or those of one position.
func (s *CandidateService) List(ctx context.Context, positionID string) ([]*election.Candidate, error) {
	if positionID == "" {
		return s.store.Candidates().List(ctx, nil)
	}
	id, err := validation.ValidateUUID(positionID, "positionId")
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return s.store.Candidates().List(ctx, &id)
}

func (s *CandidateService) Get(ctx context.Context, id string) (*election.Candidate, error) {
	candidateID, err := validation.ValidateUUID(id, "id")
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	candidate, err := s.store.Candidates().GetByID(ctx, candidateID)
	return candidate, translate(err)
}

func (s *CandidateService) Create(ctx context.Context, req CandidateRequest) (*election.Candidate, error) {
	positionID, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if err := ensureBallotEditable(ctx, s.store); err != nil {
		return nil, err
	}

	candidate := &election.Candidate{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PositionID:  positionID,
		PortraitRef: req.PortraitRef,
	}
	if err := s.store.Candidates().Create(ctx, candidate); err != nil {
		return nil, translate(err)
	}

	s.log.Info("Candidate created", "id", candidate.ID, "position_id", positionID)
	return candidate, nil
}

func (s *CandidateService) Update(ctx context.Context, id string, req CandidateRequest) (*election.Candidate, error) {
	positionID, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureBallotEditable(ctx, s.store); err != nil {
		return nil, err
	}

	candidate.FirstName = strings.TrimSpace(req.FirstName)
	candidate.LastName = strings.TrimSpace(req.LastName)
	candidate.PositionID = positionID
	candidate.PortraitRef = req.PortraitRef

	if err := s.store.Candidates().Update(ctx, candidate); err != nil {
		return nil, translate(err)
	}
	return candidate, nil
}

// SetPortrait points a candidate at a stored portrait. Portraits may change
// at any stage.
func (s *CandidateService) SetPortrait(ctx context.Context, id, ref string) (*election.Candidate, error) {
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	candidate.PortraitRef = ref
	if err := s.store.Candidates().Update(ctx, candidate); err != nil {
		return nil, translate(err)
	}
	return candidate, nil
}

func (s *CandidateService) Delete(ctx context.Context, id string) error {
	candidateID, err := validation.ValidateUUID(id, "id")
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := ensureBallotEditable(ctx, s.store); err != nil {
		return err
	}
	return translate(s.store.Candidates().Delete(ctx, candidateID))
}

// ensureBallotEditable refuses ballot changes while voting is open.
func ensureBallotEditable(ctx context.Context, store election.Store) error {
	settings, err := store.Settings().Get(ctx)
	if err != nil {
		return err
	}
	if settings.IsVotingOpen() {
		return &ForbiddenError{Message: msgLockedByVoting}
	}
	return nil
}
