package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// WriteTranscript appends a raw call transcript to the write-only sink table.
func (s *Store) WriteTranscript(ctx context.Context, customerID uuid.UUID, phone string, stageNum int, text string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO call_transcripts (id, customer_id, phone, call_stage, transcript, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		id, customerID, phone, stageNum, text,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert transcript: %w", err)
	}
	return id, nil
}
