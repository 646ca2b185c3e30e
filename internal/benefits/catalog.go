// Package benefits implements the rules-based benefit matcher. The catalog
// is a fixed, ordered list of federal assistance programs; each program
// carries display metadata and a pure eligibility predicate over a validated
// set of screening answers. Matching is deterministic and involves no
// external calls.
package benefits

// Answers is the validated subset of screening fields the predicates read.
// Values are the enumerated strings accepted by the submission validator.
type Answers struct {
	AgeRange           string
	MonthlyIncomeRange string
	EmploymentStatus   string
	Veteran            string
	Disability         string
	PregnantOrChildren string
	HasHealthInsurance string
	HousingStatus      string
}

// Program is one catalog entry. Match must be pure and total: it returns a
// decision for every validated answer set and never errors.
type Program struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Reason       string   `json:"reason"`
	NextSteps    []string `json:"next_steps"`
	OfficialLink string   `json:"official_link"`
	Match        func(Answers) bool `json:"-"`
}

func lowIncome(a Answers) bool {
	switch a.MonthlyIncomeRange {
	case "under_1000", "1000_2000", "2000_3000":
		return true
	}
	return false
}

// veryLowIncome is the tighter bracket used by SSI.
func veryLowIncome(a Answers) bool {
	switch a.MonthlyIncomeRange {
	case "under_1000", "1000_2000":
		return true
	}
	return false
}

// Catalog lists every screenable program in presentation order. Match
// results preserve this order.
var Catalog = []Program{
	{
		ID:          "snap",
		Name:        "SNAP (Food Assistance)",
		Description: "Supplemental Nutrition Assistance Program provides monthly benefits for groceries.",
		Reason:      "Based on your household income, you may qualify for food assistance.",
		NextSteps: []string{
			"Visit your local SNAP office or apply online",
			"Gather proof of income and household size",
			"Complete an interview (phone or in-person)",
		},
		OfficialLink: "https://www.fns.usda.gov/snap/recipient/eligibility",
		Match:        lowIncome,
	},
	{
		ID:          "medicaid",
		Name:        "Medicaid",
		Description: "Free or low-cost health coverage for eligible low-income adults and families.",
		Reason:      "Based on your income and insurance status, you may qualify for Medicaid.",
		NextSteps: []string{
			"Apply through your state Medicaid agency or Healthcare.gov",
			"Provide proof of income and residency",
			"You may get coverage within 45 days",
		},
		OfficialLink: "https://www.medicaid.gov/about-us/beneficiary-resources/index.html",
		Match: func(a Answers) bool {
			return lowIncome(a) || a.HasHealthInsurance == "no"
		},
	},
	{
		ID:          "medicare_savings",
		Name:        "Medicare Savings Programs",
		Description: "Help paying Medicare premiums, deductibles, and copays for seniors with limited income.",
		Reason:      "As a senior with limited income, you may qualify for help with Medicare costs.",
		NextSteps: []string{
			"Contact your State Health Insurance Assistance Program (SHIP)",
			"Apply through your state Medicaid office",
			"Bring your Medicare card and income documents",
		},
		OfficialLink: "https://www.medicare.gov/your-medicare-costs/get-help-paying-costs/medicare-savings-programs",
		Match: func(a Answers) bool {
			return a.AgeRange == "65_plus" && lowIncome(a)
		},
	},
	{
		ID:          "chip",
		Name:        "CHIP (Children's Health Insurance)",
		Description: "Free or low-cost health coverage for children in families who earn too much for Medicaid.",
		Reason:      "You indicated you have children or are pregnant.",
		NextSteps: []string{
			"Apply at Healthcare.gov or your state CHIP program",
			"Coverage can start immediately for children",
			"Premiums are usually very low or free",
		},
		OfficialLink: "https://www.healthcare.gov/medicaid-chip/childrens-health-insurance-program/",
		Match: func(a Answers) bool {
			return a.PregnantOrChildren == "yes"
		},
	},
	{
		ID:          "liheap",
		Name:        "LIHEAP (Energy Assistance)",
		Description: "Help paying heating and cooling bills for low-income households.",
		Reason:      "Based on your income, you may qualify for help with utility bills.",
		NextSteps: []string{
			"Contact your local Community Action Agency",
			"Apply during the heating or cooling season",
			"Bring utility bills and proof of income",
		},
		OfficialLink: "https://www.acf.hhs.gov/ocs/low-income-home-energy-assistance-program-liheap",
		Match:        lowIncome,
	},
	{
		ID:          "wic",
		Name:        "WIC (Women, Infants, Children)",
		Description: "Nutrition program for pregnant women, new mothers, and young children.",
		Reason:      "You indicated you are pregnant or have young children.",
		NextSteps: []string{
			"Find your local WIC office",
			"Schedule a certification appointment",
			"Bring proof of income and child's immunization records",
		},
		OfficialLink: "https://www.fns.usda.gov/wic",
		Match: func(a Answers) bool {
			return a.PregnantOrChildren == "yes"
		},
	},
	{
		ID:          "unemployment",
		Name:        "Unemployment Insurance",
		Description: "Temporary income for workers who lost their job through no fault of their own.",
		Reason:      "You indicated you are currently unemployed.",
		NextSteps: []string{
			"File a claim with your state unemployment office",
			"Gather your work history and employer information",
			"Continue to search for work while receiving benefits",
		},
		OfficialLink: "https://www.dol.gov/general/topic/unemployment-insurance",
		Match: func(a Answers) bool {
			return a.EmploymentStatus == "unemployed"
		},
	},
	{
		ID:          "va_benefits",
		Name:        "VA Benefits",
		Description: "Healthcare, disability compensation, and other benefits for veterans.",
		Reason:      "You indicated you are a veteran.",
		NextSteps: []string{
			"Register at VA.gov or visit your local VA office",
			"Apply for VA health care enrollment",
			"Check eligibility for disability compensation",
		},
		OfficialLink: "https://www.va.gov/health-care/",
		Match: func(a Answers) bool {
			return a.Veteran == "yes"
		},
	},
	{
		ID:          "housing_assistance",
		Name:        "Housing Assistance",
		Description: "Help with rent, finding affordable housing, or avoiding eviction.",
		Reason:      "Based on your income and housing situation, you may qualify for assistance.",
		NextSteps: []string{
			"Contact your local Public Housing Authority (PHA)",
			"Apply for Section 8 Housing Choice Voucher",
			"Ask about emergency rental assistance programs",
		},
		OfficialLink: "https://www.hud.gov/topics/rental_assistance",
		Match: func(a Answers) bool {
			switch a.HousingStatus {
			case "rent", "unhoused", "other":
				return lowIncome(a)
			}
			return false
		},
	},
	{
		ID:          "ssi",
		Name:        "SSI (Supplemental Security Income)",
		Description: "Monthly payments for people with limited income who are 65+, blind, or disabled.",
		Reason:      "Based on your age/disability status and income, you may qualify for SSI.",
		NextSteps: []string{
			"Apply online at ssa.gov or call 1-800-772-1213",
			"Gather medical records if applying for disability",
			"Provide proof of income and resources",
		},
		OfficialLink: "https://www.ssa.gov/ssi/",
		Match: func(a Answers) bool {
			return (a.AgeRange == "65_plus" || a.Disability == "yes") && veryLowIncome(a)
		},
	},
}

// MatchAnswers evaluates every catalog predicate against the answers and
// returns the qualifying programs in catalog order.
func MatchAnswers(a Answers) []Program {
	out := make([]Program, 0, len(Catalog))
	for _, p := range Catalog {
		if p.Match(a) {
			out = append(out, p)
		}
	}
	return out
}

// MatchIDs is MatchAnswers reduced to program IDs, the form persisted on a
// submission row.
func MatchIDs(a Answers) []string {
	progs := MatchAnswers(a)
	ids := make([]string, len(progs))
	for i, p := range progs {
		ids[i] = p.ID
	}
	return ids
}

// ByID returns the catalog entry for a program ID, or false when the ID is
// unknown (e.g. a program retired after the submission was stored).
func ByID(id string) (Program, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Program{}, false
}
