// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

// resultSchema is the canonical shape of a result file. A file is either a
// bare list of criterion objects or a consolidated document carrying the list
// under "resultados". Optional fields get explicit defaults. Evidence may be
// loose: a page can be written as a float, a string or null, and an item can be
// a bare excerpt string.
const resultSchema = `
#Evidence: {
	doc?:    string | null
	pagina?: number | string | null
	trecho?: string | null
	...
}

#CriterionResult: {
	criterio:           *"" | string | null
	presenca:           *"" | string | null
	risco_greenwashing: *"" | string | null
	evidencias:         *[] | [...(#Evidence | string)] | null
	observacoes:        *"" | string | null
	...
}

#Results: [...#CriterionResult]

#Consolidated: {
	doc_id?:     string
	resultados:  #Results
	...
}
`

// rawEvidence accepts an evidence object or a bare excerpt string.
type rawEvidence struct {
	Doc    string     `json:"doc"`
	Pagina pageNumber `json:"pagina"`
	Trecho string     `json:"trecho"`
}

func (e *rawEvidence) UnmarshalJSON(data []byte) error {
	var excerpt string
	if err := json.Unmarshal(data, &excerpt); err == nil {
		*e = rawEvidence{Trecho: excerpt}
		return nil
	}
	type plain rawEvidence
	return json.Unmarshal(data, (*plain)(e))
}

// pageNumber is a page written as an integer, a float or a numeric string.
// Anything that is not a whole number decodes to 0, which the validators
// report as out of range.
type pageNumber int

func (p *pageNumber) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			*p = 0
			return nil
		}
		f = parsed
	default:
		*p = 0
		return nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		*p = 0
		return nil
	}
	*p = pageNumber(f)
	return nil
}

type rawResult struct {
	Criterio    string        `json:"criterio"`
	Presenca    string        `json:"presenca"`
	Risco       string        `json:"risco_greenwashing"`
	Evidencias  []rawEvidence `json:"evidencias"`
	Observacoes *string       `json:"observacoes"`
}

// Schema validates JSON result documents against resultSchema and decodes
// them. A Schema owns its CUE context and is not safe for concurrent use.
type Schema struct {
	ctx          *cue.Context
	results      cue.Value
	consolidated cue.Value
}

// NewSchema compiles the result schema.
func NewSchema() (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(resultSchema, cue.Filename("results.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling result schema: %w", err)
	}
	return &Schema{
		ctx:          ctx,
		results:      v.LookupPath(cue.ParsePath("#Results")),
		consolidated: v.LookupPath(cue.ParsePath("#Consolidated")),
	}, nil
}

// DecodeJSON validates a JSON document and returns its criterion results.
func (s *Schema) DecodeJSON(filename string, data []byte) ([]labels.CriterionResult, error) {
	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	v := s.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var list cue.Value
	switch v.Kind() {
	case cue.ListKind:
		list = s.results.Unify(v)
	case cue.StructKind:
		doc := s.consolidated.Unify(v)
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("schema mismatch: %w", err)
		}
		list = doc.LookupPath(cue.ParsePath("resultados"))
	default:
		return nil, fmt.Errorf("schema mismatch: expected a list or an object, got %s", v.Kind())
	}
	if err := list.Validate(); err != nil {
		return nil, fmt.Errorf("schema mismatch: %w", err)
	}

	data, err = list.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	var raw []rawResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return toResults(raw), nil
}

func toResults(raw []rawResult) []labels.CriterionResult {
	out := make([]labels.CriterionResult, 0, len(raw))
	for _, r := range raw {
		res := labels.CriterionResult{
			Criterion:     r.Criterio,
			Presence:      labels.Presence(r.Presenca),
			GreenwashRisk: r.Risco,
			Evidence:      make([]labels.Evidence, 0, len(r.Evidencias)),
		}
		if r.Observacoes != nil {
			res.Notes = *r.Observacoes
		}
		for _, e := range r.Evidencias {
			res.Evidence = append(res.Evidence, labels.Evidence{Doc: e.Doc, Page: int(e.Pagina), Excerpt: e.Trecho})
		}
		out = append(out, res)
	}
	return out
}
