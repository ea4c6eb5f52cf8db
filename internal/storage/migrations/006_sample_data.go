package migrations

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/sample_election.yaml
var sampleElectionYAML []byte

type sampleElection struct {
	Positions []struct {
		ID              string `yaml:"id"`
		Name            string `yaml:"name"`
		Description     string `yaml:"description"`
		Order           int    `yaml:"order"`
		MinSelectable   int    `yaml:"minSelectable"`
		MaxSelectable   int    `yaml:"maxSelectable"`
		NumberOfWinners int    `yaml:"numberOfWinners"`
	} `yaml:"positions"`
	Candidates []struct {
		ID          string `yaml:"id"`
		FirstName   string `yaml:"firstName"`
		LastName    string `yaml:"lastName"`
		Position    string `yaml:"position"`
		PortraitRef string `yaml:"portraitRef"`
	} `yaml:"candidates"`
}

func loadSampleElection() (*sampleElection, error) {
	var sample sampleElection
	if err := yaml.Unmarshal(sampleElectionYAML, &sample); err != nil {
		return nil, fmt.Errorf("failed to parse sample election: %w", err)
	}
	return &sample, nil
}

// migration006Up inserts the settings row and the sample election
func migration006Up(db *gorm.DB) error {
	if err := db.Exec(`
        INSERT INTO election_settings (id, stage, updated_at)
        VALUES (1, 'setup', NOW())
        ON CONFLICT (id) DO NOTHING
    `).Error; err != nil {
		return err
	}

	sample, err := loadSampleElection()
	if err != nil {
		return err
	}

	for _, p := range sample.Positions {
		err := db.Exec(`
            INSERT INTO positions (id, name, description, display_order, status,
                min_selectable, max_selectable, number_of_winners, created_at, updated_at)
            VALUES (?, ?, ?, ?, 'active', ?, ?, ?, NOW(), NOW())
            ON CONFLICT DO NOTHING`,
			p.ID, p.Name, p.Description, p.Order, p.MinSelectable, p.MaxSelectable, p.NumberOfWinners,
		).Error
		if err != nil {
			return fmt.Errorf("failed to insert sample position %s: %w", p.Name, err)
		}
	}

	for _, c := range sample.Candidates {
		err := db.Exec(`
            INSERT INTO candidates (id, first_name, last_name, position_id, portrait_ref, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, NOW(), NOW())
            ON CONFLICT DO NOTHING`,
			c.ID, c.FirstName, c.LastName, c.Position, c.PortraitRef,
		).Error
		if err != nil {
			return fmt.Errorf("failed to insert sample candidate %s %s: %w", c.FirstName, c.LastName, err)
		}
	}

	return nil
}

// migration006Down removes the sample election; the settings row stays
func migration006Down(db *gorm.DB) error {
	sample, err := loadSampleElection()
	if err != nil {
		return err
	}

	candidateIDs := make([]string, 0, len(sample.Candidates))
	for _, c := range sample.Candidates {
		candidateIDs = append(candidateIDs, c.ID)
	}
	positionIDs := make([]string, 0, len(sample.Positions))
	for _, p := range sample.Positions {
		positionIDs = append(positionIDs, p.ID)
	}

	if err := db.Exec("DELETE FROM candidates WHERE id IN ?", candidateIDs).Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM positions WHERE id IN ?", positionIDs).Error
}
