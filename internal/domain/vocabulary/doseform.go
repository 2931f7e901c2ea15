package vocabulary

import "strings"

// DoseFormGroupOther is the fallback group for unrecognized dose forms.
const DoseFormGroupOther = "Other"

// doseFormRule maps a set of dose-form name keywords to a group label.
type doseFormRule struct {
	group    string
	keywords []string
}

// doseFormRules are evaluated top to bottom; the first rule with a matching
// keyword wins. Order matters: "Auto-Injector" must classify as Injectable
// before the broader ORAL keywords get a chance to misfire on other names.
var doseFormRules = []doseFormRule{
	{"Injectable Product", []string{"INJECT", "SYRINGE", "AUTO-INJECTOR", "CARTRIDGE"}},
	{"Oral", []string{"ORAL TABLET", "TABLET", "ORAL", "LOZENGE"}},
	{"Buccal/Sublingual Product", []string{"BUCCAL", "SUBLINGUAL"}},
	{"Inhalant Product", []string{"INHAL"}},
	{"Nasal Product", []string{"NASAL"}},
	{"Ophthalmic Product", []string{"OPHTHALMIC"}},
	{"Topical Product", []string{"TOPICAL"}},
	{"Transdermal/Patch Product", []string{"PATCH", "MEDICATED PAD", "MEDICATED TAPE"}},
	{"Suppository Product", []string{"SUPPOSITORY"}},
	{"Drug Implant Product", []string{"IMPLANT", "INTRAUTERINE SYSTEM"}},
	{"Irrigation Product", []string{"IRRIGATION"}},
	{"Intravesical Product", []string{"INTRAVESICAL"}},
	{"Intratracheal Product", []string{"INTRATRACHEAL"}},
	{"Intraperitoneal Product", []string{"INTRAPERITONEAL"}},
}

// DoseFormGroup classifies a free-text dose-form concept name into a coarse
// administration-route group. Matching is case-insensitive substring; names
// matching no rule return DoseFormGroupOther. Empty input returns "".
func DoseFormGroup(doseFormName string) string {
	if doseFormName == "" {
		return ""
	}
	upper := strings.ToUpper(doseFormName)
	for _, rule := range doseFormRules {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				return rule.group
			}
		}
	}
	return DoseFormGroupOther
}
