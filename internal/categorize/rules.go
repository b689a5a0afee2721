package categorize

import "github.com/mbentes/conciliador/internal/store"

// staticRule maps keyword hits to a category and cost center by name. The
// table is ordered; the first rule with any keyword found in
// "establishment description" wins. Learned rules always take precedence
// over this table.
type staticRule struct {
	Keywords     []string
	CategoryName string
	CategoryType string
	CostCenter   string
}

var staticRules = []staticRule{
	{[]string{"uber", "99app", "99 pop", "cabify", "taxi"}, "Transporte / Deslocamento", store.CategoryExpense, "Administrativo"},
	{[]string{"correios", "jadlog", "loggi", "total express", "frete"}, "Fretes e Envios", store.CategoryExpense, "Logística"},
	{[]string{"mercado livre", "mercadolivre", "shopee", "amazon", "magalu"}, "Receita Marketplace", store.CategoryRevenue, "Comercial"},
	{[]string{"posto", "combustivel", "ipiranga", "petrobras", "shell"}, "Combustível", store.CategoryExpense, "Logística"},
	{[]string{"ifood", "restaurante", "lanchonete", "padaria", "mercado"}, "Alimentação", store.CategoryExpense, "Administrativo"},
	{[]string{"darf", "das", "simples nacional", "icms", "iss"}, "Impostos e Tributos", store.CategoryExpense, "Financeiro"},
	{[]string{"tarifa", "iof", "juros", "anuidade", "encargos"}, "Tarifas Bancárias", store.CategoryExpense, "Financeiro"},
	{[]string{"energia", "enel", "cemig", "copel", "light"}, "Energia Elétrica", store.CategoryExpense, "Administrativo"},
	{[]string{"vivo", "claro", "oi fibra", "internet", "telefonia"}, "Telefonia e Internet", store.CategoryExpense, "Administrativo"},
	{[]string{"aluguel", "condominio", "iptu"}, "Aluguel e Ocupação", store.CategoryExpense, "Administrativo"},
	{[]string{"salario", "folha de pagamento", "pro labore", "prolabore", "fgts", "inss"}, "Folha de Pagamento", store.CategoryExpense, "Pessoal"},
	{[]string{"google ads", "meta ads", "facebook ads", "tiktok ads", "anuncio"}, "Marketing e Anúncios", store.CategoryExpense, "Comercial"},
	{[]string{"embalagem", "caixa de papelao", "fita adesiva"}, "Embalagens", store.CategoryExpense, "Logística"},
	{[]string{"contabilidade", "contador", "advocacia", "cartorio"}, "Serviços Profissionais", store.CategoryExpense, "Administrativo"},
}
