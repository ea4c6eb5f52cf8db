package election

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Ballot is one voter's accepted vote. A voter owns at most one ballot.
type Ballot struct {
	ID      uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	VoterID string        `json:"voterId" gorm:"not null;uniqueIndex"`
	CastAt  time.Time     `json:"castAt" gorm:"autoCreateTime"`
	Entries []BallotEntry `json:"entries,omitempty" gorm:"foreignKey:BallotID;constraint:OnDelete:CASCADE"`
}

// BallotEntry is the chosen candidates of one position on a ballot.
type BallotEntry struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	BallotID     uuid.UUID      `json:"ballotId" gorm:"type:uuid;not null;index"`
	PositionID   uuid.UUID      `json:"positionId" gorm:"type:uuid;not null"`
	CandidateIDs pq.StringArray `json:"candidateIds" gorm:"type:uuid[]"`
}

// TableName overrides the table name
func (Ballot) TableName() string {
	return "ballots"
}

// TableName overrides the table name
func (BallotEntry) TableName() string {
	return "ballot_entries"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (b *Ballot) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (e *BallotEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewBallot builds a ballot from candidate ids grouped by position.
func NewBallot(voterID string, votes map[uuid.UUID][]uuid.UUID) *Ballot {
	b := &Ballot{ID: uuid.New(), VoterID: voterID}
	for positionID, candidateIDs := range votes {
		ids := make(pq.StringArray, 0, len(candidateIDs))
		for _, id := range candidateIDs {
			ids = append(ids, id.String())
		}
		b.Entries = append(b.Entries, BallotEntry{
			ID:           uuid.New(),
			BallotID:     b.ID,
			PositionID:   positionID,
			CandidateIDs: ids,
		})
	}
	return b
}

// VoteTotal is one row of the candidate_vote_totals view.
type VoteTotal struct {
	CandidateID uuid.UUID `gorm:"type:uuid"`
	PositionID  uuid.UUID `gorm:"type:uuid"`
	Votes       int
}

func (VoteTotal) TableName() string {
	return "candidate_vote_totals"
}
