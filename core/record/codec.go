package record

import "encoding/json"

// wireRecord is the JSON interchange form shared by the relay protocol,
// the sqlite cache and snapshot archives. Tags travel as pair arrays.
type wireRecord struct {
	ID        string     `json:"id"`
	Author    string     `json:"author"`
	Kind      int        `json:"kind"`
	CreatedAt int64      `json:"created_at"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig,omitempty"`
}

// MarshalJSON encodes the record in wire form.
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		ID:        r.ID,
		Author:    r.Author,
		Kind:      r.Kind,
		CreatedAt: r.CreatedAt,
		Tags:      make([][]string, len(r.Tags)),
		Content:   r.Content,
		Sig:       r.Sig,
	}
	for i, t := range r.Tags {
		w.Tags[i] = []string{t.Key, t.Value}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire form. Tag entries with fewer than two
// elements are kept with an empty value so declaration positions survive.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.ID = w.ID
	r.Author = w.Author
	r.Kind = w.Kind
	r.CreatedAt = w.CreatedAt
	r.Content = w.Content
	r.Sig = w.Sig
	r.Tags = make([]Tag, 0, len(w.Tags))
	for _, pair := range w.Tags {
		t := Tag{}
		if len(pair) > 0 {
			t.Key = pair[0]
		}
		if len(pair) > 1 {
			t.Value = pair[1]
		}
		r.Tags = append(r.Tags, t)
	}
	return nil
}
