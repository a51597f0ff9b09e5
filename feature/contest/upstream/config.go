package upstream

import "time"

// Config holds the provider endpoints and HTTP client settings.
type Config struct {
	// TimeoutSeconds bounds every HTTP request to a provider.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of attempts per fetch, including the first one.
	MaxRetries uint `mapstructure:"max_retries" default:"3"`
	// RetryInterval is the initial backoff between attempts.
	RetryInterval time.Duration `mapstructure:"retry_interval" default:"500ms"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"contest-sync/1.0"`
	// CodeforcesURL is the contest.list endpoint.
	CodeforcesURL string `mapstructure:"codeforces_url" default:"https://codeforces.com/api/contest.list"`
	// CodeChefURL is the contest list endpoint.
	CodeChefURL string `mapstructure:"codechef_url" default:"https://www.codechef.com/api/list/contests/all?sort_by=START&sorting_order=asc&offset=0&mode=all"`
	// CodeChefIncludePast also reads past_contests.
	CodeChefIncludePast bool `mapstructure:"codechef_include_past" default:"false"`
	// GenericName is the provider name of the generic JSON list source.
	GenericName string `mapstructure:"generic_name" default:"generic"`
	// GenericURL enables the generic provider when set.
	GenericURL string `mapstructure:"generic_url" default:""`
	// GenericItemsPath is the gjson path of the contest array. Empty means the document root.
	GenericItemsPath string `mapstructure:"generic_items_path" default:""`
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProviderNames returns the providers enabled by this configuration.
func (c Config) ProviderNames() []string {
	var names []string
	if c.CodeforcesURL != "" {
		names = append(names, ProviderCodeforces)
	}
	if c.CodeChefURL != "" {
		names = append(names, ProviderCodeChef)
	}
	if c.GenericURL != "" {
		names = append(names, c.GenericName)
	}
	return names
}
