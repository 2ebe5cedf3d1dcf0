package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camposanto/camposanto/internal/storage"
)

// CreatePlan inserts one plan catalog entry.
func (s *Store) CreatePlan(ctx context.Context, plan storage.Plan) (storage.Plan, error) {
	if err := ctx.Err(); err != nil {
		return storage.Plan{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Plan{}, err
	}
	code := strings.TrimSpace(plan.Code)
	name := strings.TrimSpace(plan.Name)
	if code == "" {
		return storage.Plan{}, fmt.Errorf("plan code is required")
	}
	if name == "" {
		return storage.Plan{}, fmt.Errorf("plan name is required")
	}
	if plan.MaxSites <= 0 {
		plan.MaxSites = 1
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO plans (code, name, price_monthly_clp, max_sites, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		code,
		name,
		plan.PriceMonthlyCLP,
		plan.MaxSites,
		boolToInt(plan.IsActive),
		toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Plan{}, storage.ErrAlreadyExists
		}
		return storage.Plan{}, fmt.Errorf("create plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Plan{}, fmt.Errorf("create plan: %w", err)
	}

	plan.ID = id
	plan.Code = code
	plan.Name = name
	return plan, nil
}

// ListActivePlans returns active plans ordered by monthly price.
func (s *Store) ListActivePlans(ctx context.Context) ([]storage.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, code, name, price_monthly_clp, max_sites, is_active
		   FROM plans
		  WHERE is_active = 1
		  ORDER BY price_monthly_clp ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []storage.Plan
	for rows.Next() {
		var plan storage.Plan
		var isActive int
		if err := rows.Scan(&plan.ID, &plan.Code, &plan.Name, &plan.PriceMonthlyCLP, &plan.MaxSites, &isActive); err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		plan.IsActive = isActive != 0
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// SubscribeOrganization binds an organization to a plan. Any previous
// subscription is superseded rather than deleted; GetSubscription returns the
// most recent one.
func (s *Store) SubscribeOrganization(ctx context.Context, orgID, planID int64) (storage.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return storage.Subscription{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Subscription{}, err
	}

	var planCode, planName string
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT code, name FROM plans WHERE id = ? AND is_active = 1`,
		planID,
	)
	if err := row.Scan(&planCode, &planName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Subscription{}, storage.ErrNotFound
		}
		return storage.Subscription{}, fmt.Errorf("subscribe organization: %w", err)
	}
	row = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id FROM organizations WHERE id = ?`,
		orgID,
	)
	var checkID int64
	if err := row.Scan(&checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Subscription{}, storage.ErrNotFound
		}
		return storage.Subscription{}, fmt.Errorf("subscribe organization: %w", err)
	}

	startedAt := time.Now().UTC()
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO organization_subscriptions (organization_id, plan_id, status, started_at)
		 VALUES (?, ?, 'ACTIVE', ?)`,
		orgID,
		planID,
		toMillis(startedAt),
	)
	if err != nil {
		return storage.Subscription{}, fmt.Errorf("subscribe organization: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Subscription{}, fmt.Errorf("subscribe organization: %w", err)
	}

	return storage.Subscription{
		ID:             id,
		OrganizationID: orgID,
		PlanID:         planID,
		PlanCode:       planCode,
		PlanName:       planName,
		Status:         "ACTIVE",
		StartedAt:      startedAt,
	}, nil
}

// GetSubscription returns the organization's most recent subscription.
func (s *Store) GetSubscription(ctx context.Context, orgID int64) (storage.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return storage.Subscription{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Subscription{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT os.id, os.organization_id, os.plan_id, p.code, p.name, os.status, os.started_at
		   FROM organization_subscriptions os
		   JOIN plans p ON p.id = os.plan_id
		  WHERE os.organization_id = ?
		  ORDER BY os.started_at DESC, os.id DESC
		  LIMIT 1`,
		orgID,
	)
	var sub storage.Subscription
	var startedAt int64
	err := row.Scan(&sub.ID, &sub.OrganizationID, &sub.PlanID, &sub.PlanCode, &sub.PlanName, &sub.Status, &startedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Subscription{}, storage.ErrNotFound
		}
		return storage.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	sub.StartedAt = fromMillis(startedAt)
	return sub, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
