package responses

// EntityCounts is the from_api/inserted/updated triple reported per entity kind
type EntityCounts struct {
	FromAPI  int `json:"from_api"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

type ShowCounts struct {
	Name     string `json:"name"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
}

type EntryCounts struct {
	FromAPI             int   `json:"from_api"`
	EntryDetailsFetched int   `json:"entry_details_fetched"`
	EntryRowsBuilt      int   `json:"entry_rows_built"`
	Inserted            int   `json:"inserted"`
	Updated             int   `json:"updated"`
	Pruned              int64 `json:"pruned"`
	UnresolvedHorses    int   `json:"unresolved_horses"`
}

type SyncCounts struct {
	Show    ShowCounts   `json:"show"`
	Rings   EntityCounts `json:"rings"`
	Classes EntityCounts `json:"classes"`
	Horses  EntityCounts `json:"horses"`
	Riders  EntityCounts `json:"riders"`
	Entries EntryCounts  `json:"entries"`
}

// ClassSlot is the time and ring of the earliest or latest class of the show
type ClassSlot struct {
	Time     string `json:"time"`
	RingName string `json:"ring_name"`
}

type MorningSyncSummary struct {
	Date               string     `json:"date"`
	ShowName           string     `json:"show_name"`
	UniqueHorseCount   int        `json:"unique_horse_count"`
	UniqueClassCount   int        `json:"unique_class_count"`
	TotalSyncedEntries int        `json:"total_synced_entries"`
	TotalClassEntries  int        `json:"total_class_entries"`
	UniqueRingCount    int        `json:"unique_ring_count"`
	FirstClass         *ClassSlot `json:"first_class"`
	LastClass          *ClassSlot `json:"last_class"`
	Counts             SyncCounts `json:"counts"`
}

type MorningSyncResponse struct {
	Task    string             `json:"task"`
	Trigger string             `json:"trigger"`
	Summary MorningSyncSummary `json:"summary"`
}
