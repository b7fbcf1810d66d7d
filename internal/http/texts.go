package http

import "cashflow/internal/i18n"

// Texts are the page strings of one locale.
type Texts struct {
	Lang           string
	Title          string
	Dashboard      string
	CreditCards    string
	Accounts       string
	From           string
	To             string
	Filter         string
	PeriodTotal    string
	Income         string
	Expense        string
	TransactionsN  string
	NoTransactions string
	NewTransaction string
	Save           string
	AllCards       string
	Month          string
	Closing        string
	Due            string
	CardTotal      string
	TotalBalance   string
	Back           string
	Field          string
	Value          string
	Saved          string
	InvalidInput   string
	SaveFailed     string
	NotFound       string
	Columns        map[string]string
}

var (
	textsPT = Texts{
		Lang:           "pt-BR",
		Title:          "Fluxo de Caixa",
		Dashboard:      "Dashboard Financeiro",
		CreditCards:    "Cartão de Crédito",
		Accounts:       "Contas",
		From:           "De",
		To:             "Até",
		Filter:         "Filtrar",
		PeriodTotal:    "Total no período:",
		Income:         "Receita",
		Expense:        "Despesa",
		TransactionsN:  "transações",
		NoTransactions: "Nenhuma transação no intervalo.",
		NewTransaction: "Adicionar Transação",
		Save:           "Salvar",
		AllCards:       "Todos os cartões",
		Month:          "Mês",
		Closing:        "Fechamento",
		Due:            "Vencimento",
		CardTotal:      "Total da fatura:",
		TotalBalance:   "Saldo total:",
		Back:           "Voltar",
		Field:          "Campo",
		Value:          "Valor",
		Saved:          "Transação registrada",
		InvalidInput:   "Dados inválidos",
		SaveFailed:     "Erro ao salvar",
		NotFound:       "Transação não encontrada",
		Columns: map[string]string{
			"id":          "ID",
			"date":        "Data",
			"description": "Descrição",
			"category":    "Categoria",
			"source":      "Conta/Cartão",
			"type":        "Tipo",
			"status":      "Status",
			"amount":      "Valor",
			"name":        "Nome",
			"bank_name":   "Banco",
			"currency":    "Moeda",
			"balance":     "Saldo",
		},
	}

	textsEN = Texts{
		Lang:           "en-US",
		Title:          "Cash Flow",
		Dashboard:      "Financial Dashboard",
		CreditCards:    "Credit Card",
		Accounts:       "Accounts",
		From:           "From",
		To:             "To",
		Filter:         "Filter",
		PeriodTotal:    "Total for the period:",
		Income:         "Income",
		Expense:        "Expense",
		TransactionsN:  "transactions",
		NoTransactions: "No transactions in this range.",
		NewTransaction: "Add Transaction",
		Save:           "Save",
		AllCards:       "All cards",
		Month:          "Month",
		Closing:        "Closing",
		Due:            "Due",
		CardTotal:      "Statement total:",
		TotalBalance:   "Total balance:",
		Back:           "Back",
		Field:          "Field",
		Value:          "Value",
		Saved:          "Transaction saved",
		InvalidInput:   "Invalid data",
		SaveFailed:     "Could not save",
		NotFound:       "Transaction not found",
		Columns: map[string]string{
			"id":          "ID",
			"date":        "Date",
			"description": "Description",
			"category":    "Category",
			"source":      "Account/Card",
			"type":        "Type",
			"status":      "Status",
			"amount":      "Amount",
			"name":        "Name",
			"bank_name":   "Bank",
			"currency":    "Currency",
			"balance":     "Balance",
		},
	}

	textsIT = Texts{
		Lang:           "it",
		Title:          "Flusso di Cassa",
		Dashboard:      "Cruscotto Finanziario",
		CreditCards:    "Carta di Credito",
		Accounts:       "Conti",
		From:           "Dal",
		To:             "Al",
		Filter:         "Filtra",
		PeriodTotal:    "Totale nel periodo:",
		Income:         "Entrata",
		Expense:        "Uscita",
		TransactionsN:  "transazioni",
		NoTransactions: "Nessuna transazione nell'intervallo.",
		NewTransaction: "Aggiungi Transazione",
		Save:           "Salva",
		AllCards:       "Tutte le carte",
		Month:          "Mese",
		Closing:        "Chiusura",
		Due:            "Scadenza",
		CardTotal:      "Totale estratto conto:",
		TotalBalance:   "Saldo totale:",
		Back:           "Indietro",
		Field:          "Campo",
		Value:          "Valore",
		Saved:          "Transazione registrata",
		InvalidInput:   "Dati non validi",
		SaveFailed:     "Errore nel salvataggio",
		NotFound:       "Transazione non trovata",
		Columns: map[string]string{
			"id":          "ID",
			"date":        "Data",
			"description": "Descrizione",
			"category":    "Categoria",
			"source":      "Conto/Carta",
			"type":        "Tipo",
			"status":      "Stato",
			"amount":      "Importo",
			"name":        "Nome",
			"bank_name":   "Banca",
			"currency":    "Valuta",
			"balance":     "Saldo",
		},
	}
)

// TextsFor returns the page strings matching a locale, Portuguese otherwise.
func TextsFor(loc i18n.Locale) Texts {
	switch loc.Tag {
	case i18n.English.Tag:
		return textsEN
	case i18n.Italian.Tag:
		return textsIT
	default:
		return textsPT
	}
}
