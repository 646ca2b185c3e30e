package services

import (
	"regexp"
	"strings"
)

// Enumerations accepted by the screening validator. These mirror the choices
// presented by the questionnaire; anything else is a validation failure.
var (
	ageRanges          = enumSet("18_24", "25_34", "35_49", "50_64", "65_plus")
	incomeRanges       = enumSet("under_1000", "1000_2000", "2000_3000", "3000_4000", "4000_plus")
	employmentStatuses = enumSet("employed", "part_time", "unemployed", "retired", "disabled", "student")
	housingStatuses    = enumSet("rent", "own", "unhoused", "other")
	yesNo              = enumSet("yes", "no")
)

var (
	emailRE     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	leadPhoneRE = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	leadZipRE   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	zip5RE      = regexp.MustCompile(`^\d{5}`)
)

func enumSet(vals ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

func inEnum(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}

// SubmissionInput is the screening questionnaire payload. Website is the
// honeypot field: humans never fill it.
type SubmissionInput struct {
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	AgeRange           string `json:"age_range"`
	ZipCode            string `json:"zip_code"`
	HouseholdSize      string `json:"household_size"`
	MonthlyIncomeRange string `json:"monthly_income_range"`
	EmploymentStatus   string `json:"employment_status"`
	Veteran            string `json:"veteran"`
	Disability         string `json:"disability"`
	Student            string `json:"student"`
	PregnantOrChildren string `json:"pregnant_or_children"`
	HousingStatus      string `json:"housing_status"`
	HasHealthInsurance string `json:"has_health_insurance"`
	Website            string `json:"website"`
}

// ValidateSubmission checks every screening field and returns a
// ValidationError listing all failures, or nil when the input is clean.
func ValidateSubmission(in SubmissionInput) error {
	var fields []FieldError
	add := func(field, msg string) { fields = append(fields, FieldError{Field: field, Message: msg}) }

	if in.Email != "" && !emailRE.MatchString(in.Email) {
		add("email", "Please enter a valid email")
	}
	if !inEnum(ageRanges, in.AgeRange) {
		add("age_range", "Please select your age range")
	}
	if len(in.ZipCode) < 5 {
		add("zip_code", "Please enter a 5-digit ZIP code")
	} else if len(in.ZipCode) > 10 {
		add("zip_code", "ZIP code is too long")
	}
	if strings.TrimSpace(in.HouseholdSize) == "" {
		add("household_size", "Please select household size")
	}
	if !inEnum(incomeRanges, in.MonthlyIncomeRange) {
		add("monthly_income_range", "Please select your income range")
	}
	if !inEnum(employmentStatuses, in.EmploymentStatus) {
		add("employment_status", "Please select your employment status")
	}
	for field, v := range map[string]string{
		"veteran":              in.Veteran,
		"disability":           in.Disability,
		"student":              in.Student,
		"pregnant_or_children": in.PregnantOrChildren,
		"has_health_insurance": in.HasHealthInsurance,
	} {
		if !inEnum(yesNo, v) {
			add(field, "Please answer yes or no")
		}
	}
	if !inEnum(housingStatuses, in.HousingStatus) {
		add("housing_status", "Please select your housing status")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// LeadInput is the Medicare call-request payload.
type LeadInput struct {
	FullName        string   `json:"full_name"`
	Phone           string   `json:"phone"`
	ZipCode         string   `json:"zip_code"`
	Consent         bool     `json:"consent"`
	Email           string   `json:"email"`
	State           string   `json:"state"`
	Source          string   `json:"source"`
	MatchedPrograms []string `json:"matched_programs"`
	WantsCallToday  bool     `json:"wants_call_today"`
	Turning65Soon   bool     `json:"turning_65_soon"`
	HasMedicareNow  bool     `json:"has_medicare_now"`
	Website         string   `json:"website"`
}

// ValidateLead checks the Medicare lead payload.
func ValidateLead(in LeadInput) error {
	var fields []FieldError
	add := func(field, msg string) { fields = append(fields, FieldError{Field: field, Message: msg}) }

	name := strings.TrimSpace(in.FullName)
	if len(name) < 2 {
		add("full_name", "Name must be at least 2 characters")
	} else if len(name) > 100 {
		add("full_name", "Name is too long")
	}

	switch {
	case len(in.Phone) < 10:
		add("phone", "Phone must be at least 10 digits")
	case len(in.Phone) > 20:
		add("phone", "Phone is too long")
	case !leadPhoneRE.MatchString(in.Phone):
		add("phone", "Invalid phone number format")
	}

	if !leadZipRE.MatchString(in.ZipCode) {
		add("zip_code", "Invalid ZIP code format")
	}
	if !in.Consent {
		add("consent", "You must agree to be contacted")
	}
	if in.Email != "" && !emailRE.MatchString(in.Email) {
		add("email", "Please enter a valid email")
	}
	if len(in.Source) > 50 {
		add("source", "Source is too long")
	}
	if len(in.State) > 50 {
		add("state", "State is too long")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// AdvisorLeadInput is the phone-callback request payload.
type AdvisorLeadInput struct {
	FirstName string            `json:"first_name"`
	Phone     string            `json:"phone"`
	Zip       string            `json:"zip"`
	Consent   bool              `json:"consent"`
	Answers   map[string]string `json:"answers"`
}

// ValidateAdvisorLead checks the phone-callback payload.
func ValidateAdvisorLead(in AdvisorLeadInput) error {
	var fields []FieldError
	add := func(field, msg string) { fields = append(fields, FieldError{Field: field, Message: msg}) }

	if len(strings.TrimSpace(in.FirstName)) < 2 {
		add("first_name", "First name is required")
	}
	if len(digits(in.Phone)) < 10 {
		add("phone", "Valid phone number is required")
	}
	if !zip5RE.MatchString(in.Zip) {
		add("zip", "Valid ZIP code is required")
	}
	if !in.Consent {
		add("consent", "Consent is required to proceed")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// digits strips every non-digit rune.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
