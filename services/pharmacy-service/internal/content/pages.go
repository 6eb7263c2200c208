package content

// Page describes an informational page. The site renders Template; the
// API only reports which page a path resolves to.
type Page struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Template string `json:"template"`
}

var pages = []Page{
	{Path: "/pharmacy-first/", Name: "pharmacy_first", Template: "pharmacy_first"},
	{Path: "/ear-infection/", Name: "ear_infection", Template: "earinfection"},
	{Path: "/impetigo/", Name: "impetigo", Template: "impetigo"},
	{Path: "/insect-bite/", Name: "insect_bite", Template: "insectbite"},
	{Path: "/shingles/", Name: "shingles", Template: "shingles"},
	{Path: "/sinusitis/", Name: "sinusitis", Template: "sinusitis"},
	{Path: "/sorethroat/", Name: "sorethroat", Template: "sorethroat"},
	{Path: "/uti/", Name: "uti", Template: "uti"},
	{Path: "/pharmacy-services/", Name: "pharmacy_services", Template: "pharmacy_services"},
	{Path: "/private-services/", Name: "private_services", Template: "private_services"},
	{Path: "/covid19/", Name: "covid19", Template: "covid19"},
	{Path: "/counter-medication/", Name: "counter_medication", Template: "countermedication"},
	{Path: "/ear-wax-removal/", Name: "earwax", Template: "earwax"},
	{Path: "/travel-clinic/", Name: "travel_clinic", Template: "travel_clinic"},
	{Path: "/altitude-sickness/", Name: "altitude_sickness", Template: "altitude_sickness"},
	{Path: "/cholera/", Name: "cholera", Template: "cholera"},
	{Path: "/dtp/", Name: "dtp", Template: "dtp"},
	{Path: "/dengue/", Name: "dengue", Template: "dengue"},
	{Path: "/hepatitis-a/", Name: "hepatitis_a", Template: "hepatitis_a"},
	{Path: "/hepatitis-b/", Name: "hepatitis_b", Template: "hepatitis_b"},
	{Path: "/japanese-encephalitis/", Name: "japanese_encephalitis", Template: "japanese_encephalitis"},
	{Path: "/mmr/", Name: "mmr", Template: "mmr"},
	{Path: "/malaria/", Name: "malaria", Template: "malaria"},
	{Path: "/yellow-fever/", Name: "yellow_fever", Template: "yellow_fever"},
	{Path: "/typhoid/", Name: "typhoid", Template: "typhoid"},
	{Path: "/tick-borne-encephalitis/", Name: "tick_borne", Template: "tick_borne"},
	{Path: "/menb/", Name: "menb", Template: "menb"},
	{Path: "/menacwy/", Name: "menacwy", Template: "menacwy"},
	{Path: "/jet-lag/", Name: "jet_lag", Template: "jetleg"},
	{Path: "/weight-loss/", Name: "weight_loss", Template: "weight_loss"},
	{Path: "/private-prescription/", Name: "private_prescription", Template: "private_prescription"},
	{Path: "/repeat-prescription/", Name: "repeat_prescription", Template: "repeat_prescription"},
	{Path: "/medication-service/", Name: "medication_service", Template: "medication_service"},
	{Path: "/emergency-dispensing/", Name: "emergency_dispensing", Template: "emergency_dispensing"},
	{Path: "/electronic-prescription/", Name: "electronic_prescription", Template: "electronic_prescription"},
	{Path: "/disposal-unwanted-medication/", Name: "disposal_unwanted_medication", Template: "disposal_unwanted_medication"},
	{Path: "/discharge-medication/", Name: "discharge_medication", Template: "discharge_medication"},
	{Path: "/flu-vaccination/", Name: "flu_vaccination", Template: "flu_vaccination"},
	{Path: "/blood-pressure/", Name: "blood_pressure", Template: "blood_pressure"},
	{Path: "/nhs-services/", Name: "nhs_services", Template: "nhs_services"},
	{Path: "/healthy-living-zone/", Name: "healthy_living_zone", Template: "healthy_living_zone"},
	{Path: "/lose-weight/", Name: "lose_weight", Template: "lose_weight"},
	{Path: "/alcohol-support/", Name: "alcohol_support", Template: "alcohol_support"},
	{Path: "/quit-smoking/", Name: "quit_smoking", Template: "quit_smoking"},
	{Path: "/blog/", Name: "blog", Template: "blog"},
	{Path: "/3service/", Name: "3service", Template: "3service"},
}

// Pages returns the registry in declaration order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}
