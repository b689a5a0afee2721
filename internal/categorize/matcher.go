package categorize

import (
	"context"
	"strings"
	"sync"

	"github.com/mbentes/conciliador/internal/logger"
	"github.com/mbentes/conciliador/internal/store"
)

// How many uncategorized transactions one ProcessBatch call will touch.
const batchCap = 500

// CatalogStore is the slice of storage the matcher needs for lookups and
// on-demand creation of missing catalog rows.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]store.Category, error)
	ListCostCenters(ctx context.Context) ([]store.CostCenter, error)
	ListRules(ctx context.Context) ([]store.CategoryRule, error)
	CreateCategory(ctx context.Context, name, categoryType string, autoCreated bool) (*store.Category, error)
	CreateCostCenter(ctx context.Context, name string, autoCreated bool) (*store.CostCenter, error)
}

// TransactionSource feeds ProcessBatch and receives its write-backs.
type TransactionSource interface {
	ListUncategorized(ctx context.Context, table, companyID string, limit int) ([]store.SourceTransaction, error)
	SetCategory(ctx context.Context, table, id, categoryID string, costCenterID, responsibleID *string) error
}

// Suggestion is a category/cost-center assignment proposed by the matcher.
type Suggestion struct {
	CategoryID     string
	CategoryName   string
	CostCenterID   *string
	CostCenterName string
	Source         string // "learned" or "keyword"
}

type BatchResult struct {
	Total       int `json:"total"`
	Categorized int `json:"categorized"`
	Errors      int `json:"errors"`
}

// catalogCache holds the learned rules and catalog rows loaded once per
// matcher generation. Invalidate drops it; the next Match reloads.
type catalogCache struct {
	rules             []store.CategoryRule
	rulesByPattern    map[string]*store.CategoryRule
	categoriesByID    map[string]*store.Category
	categoriesByName  map[string]*store.Category
	costCentersByID   map[string]*store.CostCenter
	costCentersByName map[string]*store.CostCenter
}

/*
Matcher assigns categories to transactions in two tiers: learned rules first
(exact pattern hit, then bidirectional substring, scanned most-used first),
then the static keyword table. Static-table hits resolve their category and
cost center by name against the cache, creating auto-flagged rows when the
names are missing. Learned rules are consumed read-only; they are produced
elsewhere, whenever a user categorizes by hand.
*/
type Matcher struct {
	catalog      CatalogStore
	transactions TransactionSource
	tables       []string
	appLogger    *logger.Logger

	mu    sync.Mutex
	cache *catalogCache
}

func NewMatcher(catalog CatalogStore, transactions TransactionSource, appLogger *logger.Logger) *Matcher {
	return &Matcher{
		catalog:      catalog,
		transactions: transactions,
		tables: []string{
			store.TableBankTransactions,
			store.TableCreditCardTransactions,
			store.TableMarketplaceTransactions,
		},
		appLogger: appLogger,
	}
}

// Invalidate drops the cached catalog so the next call reloads it. Callers
// must invalidate after the category, cost-center or rule tables change.
func (m *Matcher) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = nil
}

// loadCache returns the current catalog cache, loading it when a previous
// Invalidate dropped it. Callers must hold m.mu.
func (m *Matcher) loadCache(ctx context.Context) (*catalogCache, error) {
	if m.cache != nil {
		return m.cache, nil
	}

	rules, err := m.catalog.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := m.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	costCenters, err := m.catalog.ListCostCenters(ctx)
	if err != nil {
		return nil, err
	}

	cache := &catalogCache{
		rules:             rules,
		rulesByPattern:    make(map[string]*store.CategoryRule, len(rules)),
		categoriesByID:    make(map[string]*store.Category, len(categories)),
		categoriesByName:  make(map[string]*store.Category, len(categories)),
		costCentersByID:   make(map[string]*store.CostCenter, len(costCenters)),
		costCentersByName: make(map[string]*store.CostCenter, len(costCenters)),
	}

	for i := range cache.rules {
		rule := &cache.rules[i]
		if _, exists := cache.rulesByPattern[rule.Pattern]; !exists {
			cache.rulesByPattern[rule.Pattern] = rule
		}
	}
	for i := range categories {
		category := &categories[i]
		cache.categoriesByID[category.ID] = category
		cache.categoriesByName[Normalize(category.Name)] = category
	}
	for i := range costCenters {
		costCenter := &costCenters[i]
		cache.costCentersByID[costCenter.ID] = costCenter
		cache.costCentersByName[Normalize(costCenter.Name)] = costCenter
	}

	m.cache = cache
	return cache, nil
}

// Match proposes a category for one transaction, or nil when neither tier
// matches. Learned rules take precedence over the static keyword table. Calls
// are serialized under m.mu: a static hit may auto-create catalog rows and
// insert them into the cache maps, so reads and writes share one lock.
func (m *Matcher) Match(ctx context.Context, description, establishment string) (*Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cache, err := m.loadCache(ctx)
	if err != nil {
		return nil, err
	}

	if suggestion := m.matchLearned(cache, establishment); suggestion != nil {
		return suggestion, nil
	}

	return m.matchStatic(ctx, cache, description, establishment)
}

func (m *Matcher) matchLearned(cache *catalogCache, establishment string) *Suggestion {
	normalized := Normalize(establishment)
	if normalized == "" {
		return nil
	}

	if rule, ok := cache.rulesByPattern[normalized]; ok {
		if suggestion := m.suggestionFromRule(cache, rule); suggestion != nil {
			return suggestion
		}
	}

	// Rules are already ordered by usage_count descending; the first
	// substring hit in either direction wins.
	for i := range cache.rules {
		rule := &cache.rules[i]
		if strings.Contains(rule.Pattern, normalized) || strings.Contains(normalized, rule.Pattern) {
			if suggestion := m.suggestionFromRule(cache, rule); suggestion != nil {
				return suggestion
			}
		}
	}

	return nil
}

func (m *Matcher) suggestionFromRule(cache *catalogCache, rule *store.CategoryRule) *Suggestion {
	category, ok := cache.categoriesByID[rule.CategoryID]
	if !ok {
		// Rule points at a deleted category; skip it.
		return nil
	}

	suggestion := &Suggestion{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Source:       "learned",
	}

	if rule.CostCenterID != nil {
		if costCenter, ok := cache.costCentersByID[*rule.CostCenterID]; ok {
			suggestion.CostCenterID = &costCenter.ID
			suggestion.CostCenterName = costCenter.Name
		}
	}

	return suggestion
}

func (m *Matcher) matchStatic(ctx context.Context, cache *catalogCache, description, establishment string) (*Suggestion, error) {
	haystack := strings.ToLower(establishment + " " + description)

	for _, rule := range staticRules {
		if !anyKeyword(haystack, rule.Keywords) {
			continue
		}

		category, err := m.resolveCategory(ctx, cache, rule.CategoryName, rule.CategoryType)
		if err != nil {
			return nil, err
		}
		costCenter, err := m.resolveCostCenter(ctx, cache, rule.CostCenter)
		if err != nil {
			return nil, err
		}

		return &Suggestion{
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			CostCenterID:   &costCenter.ID,
			CostCenterName: costCenter.Name,
			Source:         "keyword",
		}, nil
	}

	return nil, nil
}

func anyKeyword(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// resolveCategory finds a category by name: exact normalized hit, then
// substring against cached names, then an auto-created row.
func (m *Matcher) resolveCategory(ctx context.Context, cache *catalogCache, name, categoryType string) (*store.Category, error) {
	normalized := Normalize(name)

	if category, ok := cache.categoriesByName[normalized]; ok {
		return category, nil
	}
	for cachedName, category := range cache.categoriesByName {
		if strings.Contains(cachedName, normalized) || strings.Contains(normalized, cachedName) {
			return category, nil
		}
	}

	category, err := m.catalog.CreateCategory(ctx, name, categoryType, true)
	if err != nil {
		return nil, err
	}
	cache.categoriesByID[category.ID] = category
	cache.categoriesByName[normalized] = category

	m.appLogger.Info("Categorize", "Auto-created category: name=%q type=%s", name, categoryType)
	return category, nil
}

func (m *Matcher) resolveCostCenter(ctx context.Context, cache *catalogCache, name string) (*store.CostCenter, error) {
	normalized := Normalize(name)

	if costCenter, ok := cache.costCentersByName[normalized]; ok {
		return costCenter, nil
	}
	for cachedName, costCenter := range cache.costCentersByName {
		if strings.Contains(cachedName, normalized) || strings.Contains(normalized, cachedName) {
			return costCenter, nil
		}
	}

	costCenter, err := m.catalog.CreateCostCenter(ctx, name, true)
	if err != nil {
		return nil, err
	}
	cache.costCentersByID[costCenter.ID] = costCenter
	cache.costCentersByName[normalized] = costCenter

	m.appLogger.Info("Categorize", "Auto-created cost center: name=%q", name)
	return costCenter, nil
}

// ProcessBatch categorizes up to batchCap uncategorized pending/imported
// transactions across the source tables, optionally limited to one company.
// Per-row failures are counted and skipped, never abort the batch.
func (m *Matcher) ProcessBatch(ctx context.Context, companyID string) (BatchResult, error) {
	const component = "Categorize"

	result := BatchResult{}
	remaining := batchCap

	for _, table := range m.tables {
		if remaining <= 0 {
			break
		}

		rows, err := m.transactions.ListUncategorized(ctx, table, companyID, remaining)
		if err != nil {
			return result, err
		}
		remaining -= len(rows)
		result.Total += len(rows)

		for _, tx := range rows {
			establishment := ""
			if tx.EstablishmentName != nil {
				establishment = *tx.EstablishmentName
			}

			suggestion, err := m.Match(ctx, tx.Description, establishment)
			if err != nil {
				result.Errors++
				continue
			}
			if suggestion == nil {
				continue
			}

			if err := m.transactions.SetCategory(ctx, table, tx.ID, suggestion.CategoryID, suggestion.CostCenterID, nil); err != nil {
				result.Errors++
				continue
			}
			result.Categorized++
		}
	}

	m.appLogger.Info(component, "Batch categorization: total=%d categorized=%d errors=%d", result.Total, result.Categorized, result.Errors)
	return result, nil
}
