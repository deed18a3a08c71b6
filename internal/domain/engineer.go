package domain

type EngineerContact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Qualification struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
}

type ServiceOffering struct {
	Service      string  `json:"service"`
	Price        float64 `json:"price"`
	TimeRequired string  `json:"timeRequired"`
}

// EngineerProfile is the detail record shown on an engineer's page. It is
// maintained outside this service and only read here.
type EngineerProfile struct {
	EngineerID        string            `json:"engineerId"`
	Name              string            `json:"name"`
	ProfilePictureURL string            `json:"profilePictureUrl,omitempty"`
	Specialization    string            `json:"specialization"`
	Experience        *int              `json:"experience,omitempty"`
	Location          string            `json:"location,omitempty"`
	Contact           EngineerContact   `json:"contact"`
	Bio               string            `json:"bio,omitempty"`
	Description       string            `json:"description,omitempty"`
	Qualifications    []Qualification   `json:"qualifications"`
	ProjectHighlights []string          `json:"projectHighlights"`
	Videos            []string          `json:"videos"`
	ServicesOffered   []ServiceOffering `json:"servicesOffered"`
}

// Clone returns a deep copy so cached snapshots never alias caller data.
func (p *EngineerProfile) Clone() *EngineerProfile {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Experience != nil {
		years := *p.Experience
		clone.Experience = &years
	}
	clone.Qualifications = cloneSlice(p.Qualifications)
	clone.ProjectHighlights = cloneSlice(p.ProjectHighlights)
	clone.Videos = cloneSlice(p.Videos)
	clone.ServicesOffered = cloneSlice(p.ServicesOffered)
	return &clone
}

// cloneSlice copies src, keeping an empty non-nil slice empty rather than nil
// so it still encodes as [] in JSON.
func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// EngineerSummary is a card in the engineers directory.
type EngineerSummary struct {
	EngineerID        string `json:"engineerId"`
	Name              string `json:"name"`
	Specialization    string `json:"specialization"`
	Experience        int    `json:"experience"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}
