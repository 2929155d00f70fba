package model

// HistoricalRecord is one past dealership trade-in. EngineHP is zero when the
// source did not carry it.
type HistoricalRecord struct {
	Year            int
	Make            string
	Model           string
	BoatType        string
	EngineHP        int
	TradeInValueCAD float64
}

// ScoredRecord pairs a record with its similarity to one query.
type ScoredRecord struct {
	HistoricalRecord
	Score int
}
