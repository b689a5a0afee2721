package store

import (
	"time"
)

const (
	DirectionIn  = "entrada"
	DirectionOut = "saida"
)

const (
	OriginBank        = "banco"
	OriginCard        = "cartao"
	OriginMarketplace = "marketplace"
	OriginPayables    = "contas_pagar"
	OriginReceivables = "contas_receber"
	OriginManual      = "manual"
)

const (
	StatusImported   = "imported"
	StatusPending    = "pending"
	StatusReconciled = "reconciled"
	StatusIgnored    = "ignored"
)

const (
	LineCredit = "credito"
	LineDebit  = "debito"
)

// Category types.
const (
	CategoryRevenue = "receita"
	CategoryExpense = "despesa"
)

// Payable/receivable settlement statuses.
const (
	PayableStatusOpen          = "em_aberto"
	PayableStatusPartiallyPaid = "parcialmente_pago"
	PayableStatusPaid          = "pago"

	ReceivableStatusReceived          = "recebido"
	ReceivableStatusPartiallyReceived = "parcialmente_recebido"
)

// Marketplace transaction types. Plain sales are accrual events and never
// produce a cash movement; the rest do.
const (
	MarketplaceSale           = "venda"
	MarketplaceTransfer       = "repasse"
	MarketplaceWithdrawal     = "saque"
	MarketplaceTransferRefund = "devolucao_repasse"
	MarketplaceFinancialFee   = "taxa_financeira"
	MarketplaceChargeback     = "estorno"
)

// FinancialMovement represents the 'movimentos_financeiros' table, the
// consolidated ledger of realized cash movements. At most one row exists per
// (source_reference_id, origin) pair.
type FinancialMovement struct {
	ID                string     `db:"id" json:"id"`
	MovementDate      time.Time  `db:"movement_date" json:"movement_date"`
	Direction         string     `db:"direction" json:"direction"`
	Origin            string     `db:"origin" json:"origin"`
	Description       string     `db:"description" json:"description"`
	Amount            float64    `db:"amount" json:"amount"`
	CompanyID         string     `db:"company_id" json:"company_id"`
	SourceReferenceID string     `db:"source_reference_id" json:"source_reference_id"`
	CategoryID        *string    `db:"category_id" json:"category_id,omitempty"`
	CategoryName      *string    `db:"category_name" json:"category_name,omitempty"`
	CostCenterID      *string    `db:"cost_center_id" json:"cost_center_id,omitempty"`
	CostCenterName    *string    `db:"cost_center_name" json:"cost_center_name,omitempty"`
	ResponsibleID     *string    `db:"responsible_id" json:"responsible_id,omitempty"`
	PaymentMethod     *string    `db:"payment_method" json:"payment_method,omitempty"`
	CustomerName      *string    `db:"customer_name" json:"customer_name,omitempty"`
	SupplierName      *string    `db:"supplier_name" json:"supplier_name,omitempty"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// SourceTransaction is the shape shared by the four source tables
// (bank_transactions, credit_card_transactions, marketplace_transactions,
// manual_entries). transaction_type is only populated by marketplace rows and
// establishment_name mostly by card rows; the columns exist on all four tables
// so the reconciliation machinery can treat them uniformly.
type SourceTransaction struct {
	ID                string    `db:"id" json:"id"`
	CompanyID         string    `db:"company_id" json:"company_id"`
	TransactionDate   time.Time `db:"transaction_date" json:"transaction_date"`
	Description       string    `db:"description" json:"description"`
	Amount            float64   `db:"amount" json:"amount"`
	LineDirection     string    `db:"line_direction" json:"line_direction"`
	Status            string    `db:"status" json:"status"`
	TransactionType   *string   `db:"transaction_type" json:"transaction_type,omitempty"`
	EstablishmentName *string   `db:"establishment_name" json:"establishment_name,omitempty"`
	CategoryID        *string   `db:"category_id" json:"category_id,omitempty"`
	CostCenterID      *string   `db:"cost_center_id" json:"cost_center_id,omitempty"`
	ResponsibleID     *string   `db:"responsible_id" json:"responsible_id,omitempty"`
	ExternalReference string    `db:"external_reference" json:"external_reference"`
	CreatedAt         time.Time `db:"created_at" json:"-"`
	UpdatedAt         time.Time `db:"updated_at" json:"-"`
}

// PayableReceivable represents a row of 'contas_a_pagar' or 'contas_a_receber'.
type PayableReceivable struct {
	ID               string     `db:"id" json:"id"`
	CompanyID        string     `db:"company_id" json:"company_id"`
	Description      string     `db:"description" json:"description"`
	Status           string     `db:"status" json:"status"`
	AmountTotal      float64    `db:"amount_total" json:"amount_total"`
	AmountOpen       float64    `db:"amount_open" json:"amount_open"`
	AmountPaid       float64    `db:"amount_paid" json:"amount_paid"`
	PaymentDate      *time.Time `db:"payment_date" json:"payment_date,omitempty"`
	CategoryID       *string    `db:"category_id" json:"category_id,omitempty"`
	CostCenterID     *string    `db:"cost_center_id" json:"cost_center_id,omitempty"`
	CounterpartyName string     `db:"counterparty_name" json:"counterparty_name"`
}

// Category represents the 'categorias_financeiras' table.
type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Type        string `db:"type" json:"type"`
	AutoCreated bool   `db:"auto_created" json:"auto_created"`
}

// CostCenter represents the 'centros_de_custo' table.
type CostCenter struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	AutoCreated bool   `db:"auto_created" json:"auto_created"`
}

// CategoryRule represents the 'regras_categorizacao' table: a learned
// categorization pattern ranked by how often users applied it.
type CategoryRule struct {
	ID           string  `db:"id" json:"id"`
	Pattern      string  `db:"pattern" json:"pattern"`
	CategoryID   string  `db:"category_id" json:"category_id"`
	CostCenterID *string `db:"cost_center_id" json:"cost_center_id,omitempty"`
	UsageCount   int     `db:"usage_count" json:"usage_count"`
}

// MovementFilter narrows ledger queries. Zero-value fields are ignored except
// the date range, which always applies (inclusive on both ends).
type MovementFilter struct {
	StartDate time.Time
	EndDate   time.Time
	CompanyID string
	Direction string
	Origin    string
}
