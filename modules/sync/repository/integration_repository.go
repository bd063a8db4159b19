package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"planner-api/core/database"
	coreentity "planner-api/core/entity"
	"planner-api/core/logger"
	"planner-api/modules/sync/entity"
	tbentity "planner-api/modules/timeblock/entity"
)

const integrationColumns = `id, user_id, provider, access_token, refresh_token,
	token_expires_at, ical_url, sync_state, created_at, updated_at`

type IntegrationRepositoryInterface interface {
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) (*entity.CalendarIntegration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.CalendarIntegration, error)
	ListAll(ctx context.Context) ([]entity.CalendarIntegration, error)
	Upsert(ctx context.Context, integration *entity.CalendarIntegration) (*entity.CalendarIntegration, error)
	UpdateSyncState(ctx context.Context, id uuid.UUID, state coreentity.JSONB) error
	Delete(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) error
}

type IntegrationRepository struct {
	DB database.IDatabase
}

func NewIntegrationRepository(db database.IDatabase) IntegrationRepositoryInterface {
	return &IntegrationRepository{DB: db}
}

func (r *IntegrationRepository) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) (*entity.CalendarIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM calendar_integrations
		WHERE user_id = $1 AND provider = $2`

	var integration entity.CalendarIntegration
	err := r.DB.GetContext(ctx, &integration, query, userID, provider)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("IntegrationRepository:GetByUserAndProvider", err)
		return nil, err
	}
	return &integration, nil
}

func (r *IntegrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.CalendarIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM calendar_integrations
		WHERE user_id = $1 ORDER BY provider ASC`

	integrations := []entity.CalendarIntegration{}
	if err := r.DB.SelectContext(ctx, &integrations, query, userID); err != nil {
		logger.Error("IntegrationRepository:ListByUser", err)
		return nil, err
	}
	return integrations, nil
}

// ListAll returns every integration across users, for the periodic sync job.
func (r *IntegrationRepository) ListAll(ctx context.Context) ([]entity.CalendarIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM calendar_integrations
		ORDER BY user_id ASC, provider ASC`

	integrations := []entity.CalendarIntegration{}
	if err := r.DB.SelectContext(ctx, &integrations, query); err != nil {
		logger.Error("IntegrationRepository:ListAll", err)
		return nil, err
	}
	return integrations, nil
}

// Upsert inserts or replaces the integration keyed by (user_id, provider).
// Reconnecting overwrites tokens but keeps the accumulated sync_state.
func (r *IntegrationRepository) Upsert(ctx context.Context, integration *entity.CalendarIntegration) (*entity.CalendarIntegration, error) {
	query := `
		INSERT INTO calendar_integrations (user_id, provider, access_token,
			refresh_token, token_expires_at, ical_url, sync_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			ical_url = EXCLUDED.ical_url,
			updated_at = NOW()
		RETURNING ` + integrationColumns

	var upserted entity.CalendarIntegration
	err := r.DB.GetContext(ctx, &upserted, query,
		integration.UserID, integration.Provider, integration.AccessToken,
		integration.RefreshToken, integration.TokenExpiresAt,
		integration.ICalURL, integration.SyncState)
	if err != nil {
		logger.Error("IntegrationRepository:Upsert", err)
		return nil, err
	}
	return &upserted, nil
}

func (r *IntegrationRepository) UpdateSyncState(ctx context.Context, id uuid.UUID, state coreentity.JSONB) error {
	query := `UPDATE calendar_integrations
		SET sync_state = $2, updated_at = NOW()
		WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id, state); err != nil {
		logger.Error("IntegrationRepository:UpdateSyncState", err)
		return err
	}
	return nil
}

func (r *IntegrationRepository) Delete(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) error {
	query := `DELETE FROM calendar_integrations
		WHERE user_id = $1 AND provider = $2 RETURNING id`

	var deleted uuid.UUID
	err := r.DB.GetContext(ctx, &deleted, query, userID, provider)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	if err != nil {
		logger.Error("IntegrationRepository:Delete", err)
		return err
	}
	return nil
}
