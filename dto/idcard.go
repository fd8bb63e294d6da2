package dto

// Card sides. Side detection favors the front on a tie.
const (
	SideFront = "front"
	SideBack  = "back"
)

// IdentityRecord is the result of parsing one recognized ID card image.
// Optional fields stay empty when the corresponding extraction step found
// nothing; front-side and back-side fields are mutually exclusive by
// convention. The record is never mutated after construction.
type IdentityRecord struct {
	// Front side
	Name      string `json:"name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Ethnicity string `json:"ethnicity,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	Address   string `json:"address,omitempty"`
	IDNumber  string `json:"id_number,omitempty"`

	// Back side
	IssuingAuthority string `json:"issuing_authority,omitempty"`
	ValidPeriod      string `json:"valid_period,omitempty"`

	Side       string   `json:"side"`
	Confidence float64  `json:"confidence"`
	RawText    []string `json:"raw_text,omitempty"`
}

// DisplayField is one localized label/value pair for user display.
type DisplayField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DisplayFields returns the populated fields with Chinese labels, in card
// order. Side and confidence are metadata and are excluded from display.
func (r IdentityRecord) DisplayFields() []DisplayField {
	ordered := []DisplayField{
		{"姓名", r.Name},
		{"性别", r.Gender},
		{"民族", r.Ethnicity},
		{"出生", r.BirthDate},
		{"住址", r.Address},
		{"公民身份号码", r.IDNumber},
		{"签发机关", r.IssuingAuthority},
		{"有效期限", r.ValidPeriod},
	}

	fields := make([]DisplayField, 0, len(ordered))
	for _, f := range ordered {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
