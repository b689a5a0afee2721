package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CatalogStore struct {
	db *sqlx.DB
}

func (cs *CatalogStore) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, type, auto_created FROM categorias_financeiras ORDER BY name`

	var result []Category
	err := cs.db.SelectContext(ctx, &result, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return result, nil
}

func (cs *CatalogStore) ListCostCenters(ctx context.Context) ([]CostCenter, error) {
	query := `SELECT id, name, auto_created FROM centros_de_custo ORDER BY name`

	var result []CostCenter
	err := cs.db.SelectContext(ctx, &result, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost centers: %w", err)
	}

	return result, nil
}

// ListRules returns the learned categorization rules most-used first, which is
// the precedence order the matcher scans them in.
func (cs *CatalogStore) ListRules(ctx context.Context) ([]CategoryRule, error) {
	query := `SELECT id, pattern, category_id, cost_center_id, usage_count
	FROM regras_categorizacao
	ORDER BY usage_count DESC, pattern`

	var result []CategoryRule
	err := cs.db.SelectContext(ctx, &result, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categorization rules: %w", err)
	}

	return result, nil
}

func (cs *CatalogStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	query := `SELECT id, name, type, auto_created FROM categorias_financeiras WHERE id = $1`

	var category Category
	err := cs.db.GetContext(ctx, &category, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

func (cs *CatalogStore) GetCostCenter(ctx context.Context, id string) (*CostCenter, error) {
	query := `SELECT id, name, auto_created FROM centros_de_custo WHERE id = $1`

	var costCenter CostCenter
	err := cs.db.GetContext(ctx, &costCenter, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost center: %w", err)
	}

	return &costCenter, nil
}

func (cs *CatalogStore) CreateCategory(ctx context.Context, name, categoryType string, autoCreated bool) (*Category, error) {
	category := &Category{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        categoryType,
		AutoCreated: autoCreated,
	}

	query := `INSERT INTO categorias_financeiras (id, name, type, auto_created)
	VALUES (:id, :name, :type, :auto_created)`

	_, err := cs.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (cs *CatalogStore) CreateCostCenter(ctx context.Context, name string, autoCreated bool) (*CostCenter, error) {
	costCenter := &CostCenter{
		ID:          uuid.New().String(),
		Name:        name,
		AutoCreated: autoCreated,
	}

	query := `INSERT INTO centros_de_custo (id, name, auto_created)
	VALUES (:id, :name, :auto_created)`

	_, err := cs.db.NamedExecContext(ctx, query, costCenter)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost center: %w", err)
	}

	return costCenter, nil
}
