// SPDX-License-Identifier: Apache-2.0

package parsers

import "github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results"

// DefaultPipeline builds a Pipeline with the JSON and YAML parsers sharing one
// compiled schema. JSON is registered first since it is the format the
// assessment service writes.
func DefaultPipeline() (*results.Pipeline, error) {
	schema, err := NewSchema()
	if err != nil {
		return nil, err
	}
	return results.NewPipeline(
		NewJSONParser(schema),
		NewYAMLParser(schema),
	), nil
}
