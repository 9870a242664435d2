package model

import "time"

const (
	TransactionIncome  = "Income"
	TransactionExpense = "Expense"
)

var TransactionCategories = []string{
	"Sales",
	"Service",
	"Investment",
	"Salary",
	"Operational",
	"Marketing",
	"Tax",
	"Other",
}

func IsTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}

func IsTransactionCategory(c string) bool {
	for _, tc := range TransactionCategories {
		if tc == c {
			return true
		}
	}
	return false
}

type Transaction struct {
	ID          string    `firestore:"id" bson:"_id" json:"id"`
	Type        string    `firestore:"type" bson:"type" json:"type"`
	Amount      float64   `firestore:"amount" bson:"amount" json:"amount"`
	Category    string    `firestore:"category" bson:"category" json:"category"`
	Description string    `firestore:"description,omitempty" bson:"description,omitempty" json:"description"`
	WorkspaceID string    `firestore:"workspaceId,omitempty" bson:"workspaceId,omitempty" json:"workspaceId"`
	Date        time.Time `firestore:"date" bson:"date" json:"date"`
	CreatedBy   string    `firestore:"createdBy,omitempty" bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
}
