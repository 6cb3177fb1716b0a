package model

// Batch is everything a connector read from one input.
type Batch struct {
	Header  []string // column names, tabular sources only
	Records []RawRecord
}
