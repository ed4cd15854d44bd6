// Package database provides PostgreSQL-backed implementations of repository interfaces.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/valueobject"
)

// Ensure PostgresAlertRepository implements repository.AlertRepository
var _ repository.AlertRepository = (*PostgresAlertRepository)(nil)

// PostgresAlertRepository implements AlertRepository using PostgreSQL.
type PostgresAlertRepository struct {
	db *sqlx.DB
}

// NewPostgresAlertRepository creates a new PostgreSQL alert repository.
func NewPostgresAlertRepository(db *PostgresDB) *PostgresAlertRepository {
	return &PostgresAlertRepository{
		db: db.DB,
	}
}

const alertColumns = `id, rule_id, alert_type, description, severity, status, component, execution_id,
	context, related_alerts, notifications, acknowledged_at, resolved_at,
	ack_actor, ack_notes, res_actor, res_reason, created_at, updated_at`

// Create saves a new alert to the database and returns its ID.
func (r *PostgresAlertRepository) Create(ctx context.Context, alert *entity.Alert) (entity.ID, error) {
	m, err := AlertModelFromEntity(alert)
	if err != nil {
		return entity.ID{}, err
	}

	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES (:id, :rule_id, :alert_type, :description, :severity, :status, :component, :execution_id,
			:context, :related_alerts, :notifications, :acknowledged_at, :resolved_at,
			:ack_actor, :ack_notes, :res_actor, :res_reason, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return entity.ID{}, TranslateError(err)
	}

	return alert.ID, nil
}

// BatchCreate saves a batch of alerts in one round trip.
func (r *PostgresAlertRepository) BatchCreate(ctx context.Context, alerts []*entity.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	models := make([]*AlertModel, 0, len(alerts))
	for _, alert := range alerts {
		m, err := AlertModelFromEntity(alert)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES (:id, :rule_id, :alert_type, :description, :severity, :status, :component, :execution_id,
			:context, :related_alerts, :notifications, :acknowledged_at, :resolved_at,
			:ack_actor, :ack_notes, :res_actor, :res_reason, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return TranslateError(err)
	}

	return nil
}

// Get finds an alert by its ID.
func (r *PostgresAlertRepository) Get(ctx context.Context, id entity.ID) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`

	var m AlertModel
	if err := r.db.GetContext(ctx, &m, query, id.String()); err != nil {
		return nil, TranslateError(err)
	}

	return m.ToEntity()
}

// Update persists changes to an existing alert.
func (r *PostgresAlertRepository) Update(ctx context.Context, alert *entity.Alert) error {
	m, err := AlertModelFromEntity(alert)
	if err != nil {
		return err
	}

	query := `
		UPDATE alerts
		SET status = :status, context = :context, related_alerts = :related_alerts,
			notifications = :notifications, acknowledged_at = :acknowledged_at,
			resolved_at = :resolved_at, ack_actor = :ack_actor, ack_notes = :ack_notes,
			res_actor = :res_actor, res_reason = :res_reason, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return TranslateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return TranslateError(err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns paginated alerts with optional filters.
func (r *PostgresAlertRepository) List(ctx context.Context, filter valueobject.AlertFilter, pagination valueobject.Pagination) (valueobject.PaginatedResult[*entity.Alert], error) {
	whereClause, args := r.buildWhereClause(filter)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM alerts %s`, whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return valueobject.PaginatedResult[*entity.Alert]{}, TranslateError(err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, alertColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, pagination.Limit(), pagination.Offset())

	var models []AlertModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return valueobject.PaginatedResult[*entity.Alert]{}, TranslateError(err)
	}

	alerts := make([]*entity.Alert, 0, len(models))
	for i := range models {
		a, err := models[i].ToEntity()
		if err != nil {
			return valueobject.PaginatedResult[*entity.Alert]{}, err
		}
		alerts = append(alerts, a)
	}

	return valueobject.NewPaginatedResult(alerts, total, pagination), nil
}

// buildWhereClause constructs the WHERE clause based on filters.
func (r *PostgresAlertRepository) buildWhereClause(filter valueobject.AlertFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.HasStatusFilter() {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, string(status))
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.HasSeverityFilter() {
		placeholders := make([]string, len(filter.Severities))
		for i, severity := range filter.Severities {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, string(severity))
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.Component != nil {
		conditions = append(conditions, fmt.Sprintf("component = $%d", argIndex))
		args = append(args, *filter.Component)
		argIndex++
	}

	if filter.ExecutionID != nil {
		conditions = append(conditions, fmt.Sprintf("execution_id = $%d", argIndex))
		args = append(args, *filter.ExecutionID)
		argIndex++
	}

	if filter.RuleID != nil {
		conditions = append(conditions, fmt.Sprintf("rule_id = $%d", argIndex))
		args = append(args, filter.RuleID.String())
		argIndex++
	}

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.FromDate)
		argIndex++
	}

	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *filter.ToDate)
		argIndex++
	}

	if filter.HasSearch() {
		conditions = append(conditions, fmt.Sprintf("(alert_type ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex+1))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// GetActiveAlerts returns every alert whose status is NEW or ACKNOWLEDGED.
func (r *PostgresAlertRepository) GetActiveAlerts(ctx context.Context) ([]*entity.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE status IN ($1, $2)
		ORDER BY severity ASC, created_at ASC
	`

	var models []AlertModel
	if err := r.db.SelectContext(ctx, &models, query, string(entity.AlertStatusNew), string(entity.AlertStatusAcknowledged)); err != nil {
		return nil, TranslateError(err)
	}

	alerts := make([]*entity.Alert, 0, len(models))
	for i := range models {
		a, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}

func (r *PostgresAlertRepository) countByDimension(ctx context.Context, column string, since *time.Time) (repository.AlertCounts, error) {
	query := fmt.Sprintf(`SELECT %s AS dimension, COUNT(*) AS count FROM alerts`, column)
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	query += fmt.Sprintf(` GROUP BY %s`, column)

	var rows []struct {
		Dimension string `db:"dimension"`
		Count     int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, TranslateError(err)
	}

	counts := make(repository.AlertCounts, len(rows))
	for _, row := range rows {
		counts[row.Dimension] = row.Count
	}
	return counts, nil
}

// CountByStatus returns alert counts grouped by status, optionally since a cutoff.
func (r *PostgresAlertRepository) CountByStatus(ctx context.Context, since *time.Time) (repository.AlertCounts, error) {
	return r.countByDimension(ctx, "status", since)
}

// CountBySeverity returns alert counts grouped by severity, optionally since a cutoff.
func (r *PostgresAlertRepository) CountBySeverity(ctx context.Context, since *time.Time) (repository.AlertCounts, error) {
	return r.countByDimension(ctx, "severity", since)
}

// CountByComponent returns alert counts grouped by component, optionally since a cutoff.
func (r *PostgresAlertRepository) CountByComponent(ctx context.Context, since *time.Time) (repository.AlertCounts, error) {
	return r.countByDimension(ctx, "component", since)
}

// AddNotification appends a delivery attempt to an alert's notifications list.
func (r *PostgresAlertRepository) AddNotification(ctx context.Context, alertID entity.ID, attempt entity.NotificationAttempt) error {
	alert, err := r.Get(ctx, alertID)
	if err != nil {
		return err
	}
	alert.AddNotification(attempt)
	return r.Update(ctx, alert)
}

// DeleteOlderThan removes terminal alerts created before cutoff, returning
// the number of rows removed.
func (r *PostgresAlertRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM alerts WHERE created_at < $1 AND status IN ($2, $3)`

	result, err := r.db.ExecContext(ctx, query, cutoff, string(entity.AlertStatusResolved), string(entity.AlertStatusSuppressed))
	if err != nil {
		return 0, TranslateError(err)
	}

	return result.RowsAffected()
}
