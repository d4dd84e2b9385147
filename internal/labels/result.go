// SPDX-License-Identifier: Apache-2.0

package labels

// Evidence is a cited excerpt backing a criterion judgment.
type Evidence struct {
	Doc     string `json:"doc"`
	Page    int    `json:"pagina"`
	Excerpt string `json:"trecho"`
}

// CriterionResult is one per-criterion judgment as written by the assessment
// service into a per-document result file.
type CriterionResult struct {
	Criterion     string     `json:"criterio"`
	Presence      Presence   `json:"presenca"`
	GreenwashRisk string     `json:"risco_greenwashing"`
	Evidence      []Evidence `json:"evidencias"`
	Notes         string     `json:"observacoes"`
}

// Consolidated is the per-document score together with review flags.
type Consolidated struct {
	DocID          string              `json:"doc_id"`
	AdherenceScore float64             `json:"escore_aderencia"`
	Flags          map[string][]string `json:"flags"`
	Results        []CriterionResult   `json:"resultados"`
}

const (
	FlagHighGreenwash = "greenwashing_alto"
	FlagInsufficient  = "itens_insuficientes"
)
