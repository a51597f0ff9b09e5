package upstream

import (
	"encoding/json"
	"fmt"
)

// ProviderCodeforces is the name of the Codeforces provider.
const ProviderCodeforces = "codeforces"

type codeforcesProvider struct {
	url string
}

type codeforcesResponse struct {
	Status  string             `json:"status"`
	Comment string             `json:"comment"`
	Result  []CodeforcesRecord `json:"result"`
}

func (p codeforcesProvider) Name() string     { return ProviderCodeforces }
func (p codeforcesProvider) Endpoint() string { return p.url }

func (p codeforcesProvider) Decode(body []byte) ([]RawRecord, error) {
	var resp codeforcesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode codeforces response: %w", err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("codeforces returned status %q: %s", resp.Status, resp.Comment)
	}

	records := make([]RawRecord, 0, len(resp.Result))
	for _, r := range resp.Result {
		records = append(records, r)
	}
	return records, nil
}
