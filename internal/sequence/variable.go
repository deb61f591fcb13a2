// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sequence

// Variable names a placeholder that a parameter sweep would bind to a list
// of values. Sweeps are not executed; the type only carries the data.
type Variable struct {
	Name   string
	Values []float64
}

// VariableGroup collects variables that would be swept together.
type VariableGroup struct {
	Name      string
	Variables []Variable
}

// Add appends v to the group.
func (g *VariableGroup) Add(v Variable) {
	g.Variables = append(g.Variables, v)
}
