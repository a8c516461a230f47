package fx

import (
	"sort"

	"finance/internal/ledger"
	"finance/internal/models"
	"finance/internal/money"

	"github.com/shopspring/decimal"
)

type AccountBreakdown struct {
	AccountID     string           `json:"account_id"`
	Currency      string           `json:"currency"`
	Income        decimal.Decimal  `json:"income"`
	Expense       decimal.Decimal  `json:"expense"`
	Balance       decimal.Decimal  `json:"balance"`
	BalanceInBase *decimal.Decimal `json:"balance_in_base"`
}

type OrgBalance struct {
	BaseCurrency      string             `json:"base_currency"`
	Balance           decimal.Decimal    `json:"balance"`
	BalanceDisplay    string             `json:"balance_display"`
	MissingRate       bool               `json:"missing_rate"`
	MissingCurrencies []string           `json:"missing_currencies"`
	Accounts          []AccountBreakdown `json:"accounts"`
	TotalAccountsBase decimal.Decimal    `json:"total_accounts_base"`
}

// Resolve computes the organization balance in base currency from realized
// rows. Currencies with realized activity but no usable rate are left out of
// both totals and reported through MissingRate and MissingCurrencies.
func Resolve(base string, table RateTable, accounts []models.Account, rows []models.Transaction) OrgBalance {
	result := OrgBalance{
		BaseCurrency:      base,
		MissingCurrencies: []string{},
	}
	missing := map[string]struct{}{}

	total := decimal.Zero
	net := ledger.NetByCurrency(rows)
	currencies := make([]string, 0, len(net))
	for currency := range net {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	for _, currency := range currencies {
		signed := net[currency]
		rate, ok := table.RateToBase(base, currency)
		if !ok {
			missing[currency] = struct{}{}
			continue
		}
		total = total.Add(signed.Mul(rate))
	}

	accountsTotal := decimal.Zero
	for _, balance := range ledger.AccountBalances(accounts, rows) {
		entry := AccountBreakdown{
			AccountID: balance.AccountID,
			Currency:  balance.Currency,
			Income:    balance.Income,
			Expense:   balance.Expense,
			Balance:   balance.Balance,
		}
		if rate, ok := table.RateToBase(base, balance.Currency); ok {
			converted := balance.Balance.Mul(rate)
			accountsTotal = accountsTotal.Add(converted)
			rounded := money.Round(converted, base)
			entry.BalanceInBase = &rounded
		} else if !balance.Income.IsZero() || !balance.Expense.IsZero() {
			missing[balance.Currency] = struct{}{}
		}
		result.Accounts = append(result.Accounts, entry)
	}
	if result.Accounts == nil {
		result.Accounts = []AccountBreakdown{}
	}

	for currency := range missing {
		result.MissingCurrencies = append(result.MissingCurrencies, currency)
	}
	sort.Strings(result.MissingCurrencies)
	result.MissingRate = len(result.MissingCurrencies) > 0
	result.Balance = money.Round(total, base)
	result.BalanceDisplay = money.Format(result.Balance, base)
	result.TotalAccountsBase = money.Round(accountsTotal, base)
	return result
}
