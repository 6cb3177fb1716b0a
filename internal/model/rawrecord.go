package model

// RawRecord is the intermediate type produced by connectors and consumed by the engine.
type RawRecord struct {
	Message   string
	Timestamp string   // timestamp text as found in the source
	Group     string   // stream or group identifier, empty when the source has none
	Name      string   // display name
	Columns   []string // original columns (pass-through tables only)
	Line      int      // 1-based source line or row number, 0 if unknown
}
