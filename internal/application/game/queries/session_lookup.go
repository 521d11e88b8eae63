package queries

import (
	"context"

	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

func findSession(ctx context.Context, repo session.Repository, rawID string) (*session.Session, error) {
	id, err := shared.ParseSessionID(rawID)
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}
