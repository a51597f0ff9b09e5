package upstream

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// genericProvider reads a JSON array of contest objects from any endpoint.
type genericProvider struct {
	name      string
	url       string
	itemsPath string
}

func (p genericProvider) Name() string     { return p.name }
func (p genericProvider) Endpoint() string { return p.url }

func (p genericProvider) Decode(body []byte) ([]RawRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to decode response: invalid json")
	}

	items := gjson.ParseBytes(body)
	if p.itemsPath != "" {
		items = items.Get(p.itemsPath)
	}
	if !items.IsArray() {
		return nil, fmt.Errorf("no contest array at path %q", p.itemsPath)
	}

	var records []RawRecord
	items.ForEach(func(_, v gjson.Result) bool {
		// Non-object entries keep nil fields and are rejected by normalization.
		fields, _ := v.Value().(map[string]any)
		records = append(records, GenericRecord{Provider: p.name, Fields: fields})
		return true
	})
	return records, nil
}
