package ledger

import (
	"sort"
	"time"

	"finance/internal/models"
)

type ItemKind string

const (
	ItemSingle   ItemKind = "single"
	ItemTransfer ItemKind = "transfer"
)

// ActivityItem is one entry of the activity feed: either a plain transaction
// or a transfer rebuilt from its two legs.
type ActivityItem struct {
	Kind        ItemKind                 `json:"kind"`
	Date        time.Time                `json:"date"`
	Status      models.TransactionStatus `json:"status"`
	Transaction *models.Transaction      `json:"transaction,omitempty"`
	TransferID  string                   `json:"transfer_id,omitempty"`
	From        *models.Transaction      `json:"from,omitempty"`
	To          *models.Transaction      `json:"to,omitempty"`

	createdAt time.Time
}

// GroupActivity rebuilds transfers from their legs. A transfer group needs
// an expense and an income leg and yields at most one transfer item; any
// other row, including orphan legs and extra rows sharing the group, is
// listed as a single entry. Output is newest first.
func GroupActivity(rows []models.Transaction) []ActivityItem {
	groups := map[string][]int{}
	for i, row := range rows {
		if row.TransferID != nil {
			groups[*row.TransferID] = append(groups[*row.TransferID], i)
		}
	}
	items := make([]ActivityItem, 0, len(rows))
	consumed := make(map[int]bool, len(rows))
	built := map[string]bool{}
	for i := range rows {
		if consumed[i] {
			continue
		}
		row := rows[i]
		if row.TransferID != nil && !built[*row.TransferID] {
			if item, legs, ok := buildTransfer(rows, groups[*row.TransferID], consumed); ok {
				for _, leg := range legs {
					consumed[leg] = true
				}
				built[*row.TransferID] = true
				items = append(items, item)
				continue
			}
		}
		consumed[i] = true
		single := row
		items = append(items, ActivityItem{
			Kind:        ItemSingle,
			Date:        single.Date,
			Status:      single.Status,
			Transaction: &single,
			createdAt:   single.CreatedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].createdAt.After(items[j].createdAt)
	})
	return items
}

func buildTransfer(rows []models.Transaction, indexes []int, consumed map[int]bool) (ActivityItem, []int, bool) {
	expenseIdx, incomeIdx := -1, -1
	for _, idx := range indexes {
		if consumed[idx] {
			continue
		}
		switch rows[idx].Type {
		case models.TransactionTypeExpense:
			if expenseIdx == -1 {
				expenseIdx = idx
			}
		case models.TransactionTypeIncome:
			if incomeIdx == -1 {
				incomeIdx = idx
			}
		}
	}
	if expenseIdx == -1 || incomeIdx == -1 {
		return ActivityItem{}, nil, false
	}
	from := rows[expenseIdx]
	to := rows[incomeIdx]
	date := from.Date
	if to.Date.After(date) {
		date = to.Date
	}
	status := models.StatusRealized
	if from.Status == models.StatusPlanned || to.Status == models.StatusPlanned {
		status = models.StatusPlanned
	}
	createdAt := from.CreatedAt
	if to.CreatedAt.After(createdAt) {
		createdAt = to.CreatedAt
	}
	return ActivityItem{
		Kind:       ItemTransfer,
		Date:       date,
		Status:     status,
		TransferID: *from.TransferID,
		From:       &from,
		To:         &to,
		createdAt:  createdAt,
	}, []int{expenseIdx, incomeIdx}, true
}
