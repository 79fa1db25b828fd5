package metric

import "strings"

// Definition describes a training load metric that observations may carry.
type Definition struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// Catalog lists the training load metrics known by name.
var Catalog = []Definition{
	{
		Name:        "tss",
		Aliases:     []string{"coggan_tss", "BikeStress", "TSS"},
		Unit:        "TSS",
		Description: "Power based training stress score",
	},
	{
		Name:        "trimp",
		Aliases:     []string{"trimp_points", "TRIMP"},
		Unit:        "points",
		Description: "Heart rate based training impulse",
	},
	{
		Name:        "hrss",
		Aliases:     []string{"HRSS"},
		Unit:        "points",
		Description: "Heart rate stress score normalised to threshold heart rate",
	},
	{
		Name:        "rss",
		Aliases:     []string{"govss", "RunStress", "RSS"},
		Unit:        "points",
		Description: "Running stress score from pace and grade",
	},
	{
		Name:        "swim_stress",
		Aliases:     []string{"SwimStress", "sss"},
		Unit:        "points",
		Description: "Swim stress score from pace relative to critical swim speed",
	},
	{
		Name:        "triscore",
		Aliases:     []string{"TriScore"},
		Unit:        "points",
		Description: "Sport independent combined stress score",
	},
}

// Lookup finds a catalog definition by name or alias, ignoring case.
func Lookup(name string) (Definition, bool) {
	for _, def := range Catalog {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
		for _, alias := range def.Aliases {
			if strings.EqualFold(alias, name) {
				return def, true
			}
		}
	}
	return Definition{}, false
}

// keys returns the metric map keys an observation may use for this definition.
func (d Definition) keys() []string {
	return append([]string{d.Name}, d.Aliases...)
}
