package models

// Direction indicates whether a bank transaction is a deposit or a withdrawal.
type Direction string

const (
	DirectionDeposit    Direction = "deposit"
	DirectionWithdrawal Direction = "withdrawal"
)

// Transaction represents a normalized bank-statement transaction.
// Exactly one of Deposit/Withdrawal is nonzero; rows where both are zero
// are dropped during parsing.
type Transaction struct {
	Date        string    `json:"date"` // YYYY-MM-DD (or raw input if unparseable)
	Description string    `json:"description"`
	Deposit     int64     `json:"deposit"`
	Withdrawal  int64     `json:"withdrawal"`
	Balance     int64     `json:"balance"`
	Direction   Direction `json:"direction"`
}

// Amount returns the meaningful amount of the transaction.
func (t Transaction) Amount() int64 {
	if t.Direction == DirectionDeposit {
		return t.Deposit
	}
	return t.Withdrawal
}
