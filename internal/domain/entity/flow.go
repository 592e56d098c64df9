package entity

// DisplayMode selects which screen of the send flow is shown
type DisplayMode string

const (
	DisplayAddRecipient DisplayMode = "ADD_RECIPIENT"
	DisplayConfirm      DisplayMode = "CONFIRM"
)

// FlowState is a snapshot of a send flow
type FlowState struct {
	Entries  []SendEntry
	Display  DisplayMode
	Balances BalanceLedger
	Closed   bool
}

// Receipt is returned once a transaction has been accepted
type Receipt struct {
	TxID        string      `json:"txId"`
	From        string      `json:"from"`
	Entries     []SendEntry `json:"entries"`
	SubmittedAt int64       `json:"submittedAt"`
}
