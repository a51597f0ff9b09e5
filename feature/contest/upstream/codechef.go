package upstream

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ProviderCodeChef is the name of the CodeChef provider.
const ProviderCodeChef = "codechef"

type codechefProvider struct {
	url         string
	includePast bool
}

func (p codechefProvider) Name() string     { return ProviderCodeChef }
func (p codechefProvider) Endpoint() string { return p.url }

func (p codechefProvider) sections() []string {
	sections := []string{"present_contests", "future_contests"}
	if p.includePast {
		sections = append(sections, "past_contests")
	}
	return sections
}

func (p codechefProvider) Decode(body []byte) ([]RawRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to decode codechef response: invalid json")
	}
	root := gjson.ParseBytes(body)

	if status := root.Get("status").String(); status != "" && status != "success" {
		return nil, fmt.Errorf("codechef returned status %q: %s", status, root.Get("message").String())
	}

	var records []RawRecord
	for _, section := range p.sections() {
		name := strings.TrimSuffix(section, "_contests")
		root.Get(section).ForEach(func(_, v gjson.Result) bool {
			records = append(records, CodeChefRecord{
				Code:            v.Get("contest_code").String(),
				Name:            v.Get("contest_name").String(),
				StartISO:        v.Get("contest_start_date_iso").String(),
				EndISO:          v.Get("contest_end_date_iso").String(),
				DurationMinutes: v.Get("contest_duration").Int(),
				Section:         name,
			})
			return true
		})
	}
	return records, nil
}
