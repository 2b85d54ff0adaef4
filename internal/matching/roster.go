package matching

// Clinician is a read-only roster entry.
type Clinician struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Specialty        string   `json:"specialty"`
	Location         string   `json:"location"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	Website          string   `json:"website"`
	LicenseNumber    string   `json:"license_number"`
	SpecializesIn    []string `json:"specializes_in"`
	Rating           float64  `json:"rating"`
	YearsExperience  int      `json:"years_experience"`
	AcceptsInsurance bool     `json:"accepts_insurance"`
	OnlineSessions   bool     `json:"online_sessions"`
}

var defaultRoster = []Clinician{
	{
		ID: 1, Name: "Dr. Sarah Mitchell", Specialty: "Clinical Psychology", Location: "New York, NY",
		Phone: "212-555-0101", Email: "sarah.mitchell@nyctherapy.com", Website: "www.drsamitchell.com",
		LicenseNumber: "PSY12345", SpecializesIn: []string{"F32", "F33", "F41"},
		Rating: 4.8, YearsExperience: 12, AcceptsInsurance: true, OnlineSessions: true,
	},
	{
		ID: 2, Name: "Dr. Michael Rodriguez", Specialty: "Anxiety Disorders & Trauma", Location: "Los Angeles, CA",
		Phone: "310-555-0201", Email: "m.rodriguez@latherapy.com", Website: "www.anxietyspecialistla.com",
		LicenseNumber: "MFT67890", SpecializesIn: []string{"F41", "F43", "F40"},
		Rating: 4.9, YearsExperience: 15, AcceptsInsurance: true, OnlineSessions: true,
	},
	{
		ID: 3, Name: "Dr. Emily Johnson", Specialty: "Depression & Mood Disorders", Location: "Chicago, IL",
		Phone: "312-555-0301", Email: "emily.johnson@chicagomind.com", Website: "www.moodtherapychicago.com",
		LicenseNumber: "LPC98765", SpecializesIn: []string{"F32", "F31", "F34"},
		Rating: 4.7, YearsExperience: 10, AcceptsInsurance: true, OnlineSessions: false,
	},
	{
		ID: 4, Name: "Dr. Robert Chen", Specialty: "Cognitive Behavioral Therapy", Location: "San Francisco, CA",
		Phone: "415-555-0401", Email: "robert.chen@sfcbt.com", Website: "www.sfcognitivetherapy.com",
		LicenseNumber: "PSY54321", SpecializesIn: []string{"F32", "F41", "F42"},
		Rating: 4.6, YearsExperience: 8, AcceptsInsurance: false, OnlineSessions: true,
	},
	{
		ID: 5, Name: "Dr. Lisa Thompson", Specialty: "Trauma & PTSD Specialist", Location: "Boston, MA",
		Phone: "617-555-0501", Email: "lisa.thompson@bostontrauma.com", Website: "www.traumahealingboston.com",
		LicenseNumber: "LCSW13579", SpecializesIn: []string{"F43", "F43.1", "F44"},
		Rating: 4.9, YearsExperience: 18, AcceptsInsurance: true, OnlineSessions: true,
	},
	{
		ID: 6, Name: "Dr. Amanda White", Specialty: "Eating Disorders & Body Image", Location: "Miami, FL",
		Phone: "305-555-0601", Email: "amanda.white@miamieating.com", Website: "www.eatingdisordermiami.com",
		LicenseNumber: "LMHC24680", SpecializesIn: []string{"F50", "F50.0", "F50.2"},
		Rating: 4.8, YearsExperience: 14, AcceptsInsurance: true, OnlineSessions: false,
	},
	{
		ID: 7, Name: "Dr. James Wilson", Specialty: "OCD & Anxiety Disorders", Location: "Seattle, WA",
		Phone: "206-555-0701", Email: "james.wilson@seattleocd.com", Website: "www.ocdseattle.com",
		LicenseNumber: "PSY97531", SpecializesIn: []string{"F42", "F42.0", "F41"},
		Rating: 4.7, YearsExperience: 11, AcceptsInsurance: true, OnlineSessions: true,
	},
	{
		ID: 8, Name: "Dr. Maria Garcia", Specialty: "Bilingual Therapy (Spanish/English)", Location: "Houston, TX",
		Phone: "713-555-0801", Email: "maria.garcia@houstonbilingual.com", Website: "www.terapiabilingue.com",
		LicenseNumber: "LPC86420", SpecializesIn: []string{"F32", "F41", "F43"},
		Rating: 4.8, YearsExperience: 9, AcceptsInsurance: true, OnlineSessions: true,
	},
}

// DefaultRoster returns the built-in roster in insertion order. Callers get
// their own copy of the slice; entries are treated as read-only.
func DefaultRoster() []Clinician {
	out := make([]Clinician, len(defaultRoster))
	copy(out, defaultRoster)
	return out
}

// ByRating returns a copy of roster sorted by descending rating, keeping
// insertion order among equal ratings.
func ByRating(roster []Clinician) []Clinician {
	out := make([]Clinician, len(roster))
	copy(out, roster)
	sortByRating(out)
	return out
}
