package upstream

// RawRecord is a contest record as returned by a provider.
// Implementations form a closed set: CodeforcesRecord, CodeChefRecord and GenericRecord.
type RawRecord interface {
	// ProviderName returns the name of the provider that produced the record.
	ProviderName() string
	rawRecord()
}

// CodeforcesRecord is one element of the contest.list result array.
type CodeforcesRecord struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Type                string `json:"type"`
	Phase               string `json:"phase"`
	Frozen              bool   `json:"frozen"`
	DurationSeconds     int64  `json:"durationSeconds"`
	StartTimeSeconds    int64  `json:"startTimeSeconds"`
	RelativeTimeSeconds int64  `json:"relativeTimeSeconds"`
	WebsiteURL          string `json:"websiteUrl"`
}

func (CodeforcesRecord) ProviderName() string { return ProviderCodeforces }
func (CodeforcesRecord) rawRecord()           {}

// CodeChefRecord is one element of the present, future or past contest arrays.
type CodeChefRecord struct {
	Code     string
	Name     string
	StartISO string
	EndISO   string
	// DurationMinutes is the contest_duration field, in minutes.
	DurationMinutes int64
	// Section is the array the record came from (present, future, past).
	Section string
}

func (CodeChefRecord) ProviderName() string { return ProviderCodeChef }
func (CodeChefRecord) rawRecord()           {}

// GenericRecord is a loosely typed object from a JSON list provider.
type GenericRecord struct {
	Provider string
	Fields   map[string]any
}

func (r GenericRecord) ProviderName() string { return r.Provider }
func (GenericRecord) rawRecord()             {}
