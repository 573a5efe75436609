// Package postgres persists loan applications in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/loan-decision-service/internal/domain/event"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/pkg/events"
	pkgpostgres "github.com/bibbank/loan-decision-service/pkg/postgres"
)

const applicationColumns = `
	id, user_id, applicant_name, applicant_email, applicant_phone,
	loan_purpose, loan_amount, annual_income, credit_score,
	employment_status, employment_duration_years, monthly_debt,
	loan_type, risk_level, risk_score, analysis, factors,
	debt_to_income_ratio, classifier_source, decision_status, decision_reason, evaluated_at,
	approval_status, approval_reason, reviewed_by, reviewed_at,
	version, created_at, updated_at`

// ApplicationRepository implements port.ApplicationRepository.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

var _ port.ApplicationRepository = (*ApplicationRepository)(nil)

// NewApplicationRepository creates a new repository backed by PostgreSQL.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

// Save upserts the application with optimistic locking and appends its
// pending domain events to application_events in the same transaction.
func (r *ApplicationRepository) Save(ctx context.Context, app model.LoanApplication) error {
	row, err := toRow(app)
	if err != nil {
		return err
	}
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := upsertApplication(ctx, tx, row); err != nil {
			return err
		}
		return appendEvents(ctx, tx, app.DomainEvents())
	})
}

func upsertApplication(ctx context.Context, q pkgpostgres.Querier, row applicationRow) error {
	query := `
		INSERT INTO loan_applications (` + applicationColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)
		ON CONFLICT (id) DO UPDATE SET
			loan_type            = EXCLUDED.loan_type,
			risk_level           = EXCLUDED.risk_level,
			risk_score           = EXCLUDED.risk_score,
			analysis             = EXCLUDED.analysis,
			factors              = EXCLUDED.factors,
			debt_to_income_ratio = EXCLUDED.debt_to_income_ratio,
			classifier_source    = EXCLUDED.classifier_source,
			decision_status      = EXCLUDED.decision_status,
			decision_reason      = EXCLUDED.decision_reason,
			evaluated_at         = EXCLUDED.evaluated_at,
			approval_status      = EXCLUDED.approval_status,
			approval_reason      = EXCLUDED.approval_reason,
			reviewed_by          = EXCLUDED.reviewed_by,
			reviewed_at          = EXCLUDED.reviewed_at,
			version              = loan_applications.version + 1,
			updated_at           = EXCLUDED.updated_at
		WHERE loan_applications.version = $27
	`
	tag, err := q.Exec(ctx, query, row.args()...)
	if err != nil {
		return fmt.Errorf("save loan application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

func appendEvents(ctx context.Context, q pkgpostgres.Querier, evts []event.DomainEvent) error {
	for _, evt := range evts {
		envelope, err := events.Marshal(evt)
		if err != nil {
			return fmt.Errorf("encode %s: %w", evt.EventType(), err)
		}
		_, err = q.Exec(ctx, `
			INSERT INTO application_events (event_id, aggregate_id, event_type, envelope, occurred_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (event_id) DO NOTHING
		`, evt.EventID(), evt.AggregateID(), evt.EventType(), envelope, evt.OccurredAt())
		if err != nil {
			return fmt.Errorf("append %s: %w", evt.EventType(), err)
		}
	}
	return nil
}

// FindByID retrieves a single loan application.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE id = $1`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanApplication{}, port.ErrApplicationNotFound
	}
	return app, err
}

// List returns one page of applications, newest first, and the number of
// rows matching the filter.
func (r *ApplicationRepository) List(ctx context.Context, filter port.ListFilter) ([]model.LoanApplication, int, error) {
	filter = filter.Normalize()

	var (
		conds []string
		args  []any
	)
	if !filter.Status.IsZero() {
		args = append(args, filter.Status.String())
		conds = append(conds, fmt.Sprintf("approval_status = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loan_applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loan applications: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM loan_applications%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		applicationColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query loan applications: %w", err)
	}
	defer rows.Close()

	apps := make([]model.LoanApplication, 0, filter.Limit)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate loan applications: %w", err)
	}
	return apps, total, nil
}
