package vocabulary

// Domain is an OMOP clinical domain.
type Domain string

const (
	DomainCondition   Domain = "Condition"
	DomainDrug        Domain = "Drug"
	DomainProcedure   Domain = "Procedure"
	DomainMeasurement Domain = "Measurement"
	DomainObservation Domain = "Observation"
	DomainDevice      Domain = "Device"
)

// allowed maps each domain to the vocabularies a code set for that domain
// may draw from. Domains missing from the map get no vocabularies at all.
var allowed = map[Domain][]string{
	DomainCondition:   {"ICD10CM", "SNOMED", "ICD9CM"},
	DomainObservation: {"ICD10CM", "SNOMED", "LOINC", "CPT4", "HCPCS"},
	DomainDrug:        {"RxNorm", "NDC", "CPT4", "CVX", "HCPCS", "ATC"},
	DomainMeasurement: {"LOINC", "CPT4", "SNOMED", "HCPCS"},
	DomainProcedure:   {"CPT4", "HCPCS", "SNOMED", "ICD9PCS", "LOINC", "ICD10PCS"},
}

// AllowedVocabularies returns the vocabularies permitted for a domain.
// Unrecognized domains return an empty slice, which downstream queries
// treat as "match nothing".
func AllowedVocabularies(domain Domain) []string {
	vocabs, ok := allowed[domain]
	if !ok {
		return []string{}
	}
	out := make([]string, len(vocabs))
	copy(out, vocabs)
	return out
}

// KnownDomain reports whether domain is one of the searchable OMOP domains.
func KnownDomain(domain Domain) bool {
	_, ok := allowed[domain]
	return ok
}

// Concept class restrictions applied on top of the vocabulary filter.
// The ancestor/descendant asymmetry for Drug (ATC classes allowed upward
// only) mirrors how ATC sits above RxNorm as a pure classification scheme.
var (
	// DrugSearchClasses limits Drug-domain text search candidates.
	DrugSearchClasses = []string{
		"Clinical Drug", "Branded Drug", "Ingredient", "Clinical Pack", "Branded Pack",
		"Quant Clinical Drug", "Quant Branded Drug", "11-digit NDC",
	}

	// DrugChildClasses limits Drug-domain children in a built code set.
	DrugChildClasses = []string{
		"Clinical Drug", "Branded Drug Form", "Clinical Drug Form",
		"Quant Branded Drug", "Quant Clinical Drug", "11-digit NDC",
	}

	// DrugATCAncestorClasses are the ATC hierarchy levels allowed as Drug ancestors.
	DrugATCAncestorClasses = []string{"ATC 5th", "ATC 4th", "ATC 3rd", "ATC 2nd", "ATC 1st"}

	// DrugRxNormHierarchyClasses are the RxNorm classes allowed in either
	// hierarchy direction for Drug concepts.
	DrugRxNormHierarchyClasses = []string{"Clinical Drug", "Ingredient"}
)
