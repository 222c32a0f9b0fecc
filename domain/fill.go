package domain

// Fill is an immutable record of one matched trade between a resting maker
// order and the incoming taker order. Price is always the maker's resting
// price (see matching/matcher.go) — the taker never receives a worse price
// than it asked for.
type Fill struct {
	TradeID      TradeID
	Price        Decimal
	Quantity     Decimal
	MakerOrderID OrderID
	TakerOrderID OrderID
	Timestamp    int64
}
