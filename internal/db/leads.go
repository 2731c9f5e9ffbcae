package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Lead is an interest signal left on a feature that does not exist yet
type Lead struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email,omitempty"`
	Source    string    `json:"source,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLead builds a Lead with a fresh ID and normalized email
func NewLead(email, source, userAgent string) Lead {
	return Lead{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Source:    source,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	}
}

// SaveLead inserts a lead
func (db *DB) SaveLead(ctx context.Context, lead Lead) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO fakedoor_leads (id, email, source, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		lead.ID, lead.Email, lead.Source, lead.UserAgent, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}
	return nil
}

// CountLeads returns the number of stored leads
func (db *DB) CountLeads(ctx context.Context) (int64, error) {
	var count int64
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fakedoor_leads`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

// LogStore records leads in the log only. It is used when no database is configured.
type LogStore struct {
	logger logrus.FieldLogger
}

// NewLogStore creates a LogStore
func NewLogStore(logger logrus.FieldLogger) *LogStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogStore{logger: logger}
}

// SaveLead logs the lead
func (s *LogStore) SaveLead(_ context.Context, lead Lead) error {
	s.logger.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"email":   lead.Email,
		"source":  lead.Source,
	}).Info("fakedoor lead")
	return nil
}
