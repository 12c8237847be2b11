/*
Copyright 2026 The scmrun Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package core

import "strings"

// Name identifies a parameter in the hierarchy, e.g.
// core.Name{"Emissions", "CO2"}.
type Name []string

// ParseName splits a "|"-joined hierarchical name.
func ParseName(s string) Name {
	if s == "" {
		return nil
	}
	return Name(strings.Split(s, "|"))
}

func (n Name) String() string { return strings.Join(n, "|") }

// Equal reports whether two names address the same parameter.
func (n Name) Equal(other Name) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}
	return true
}

// Region identifies a region in the hierarchy, e.g.
// core.Region{"World", "R5ASIA"}.
type Region []string

// World is the root region.
var World = Region{"World"}

// ParseRegion splits a "|"-joined hierarchical region.
func ParseRegion(s string) Region {
	if s == "" {
		return nil
	}
	return Region(strings.Split(s, "|"))
}

func (r Region) String() string { return strings.Join(r, "|") }

// Equal reports whether two regions are the same.
func (r Region) Equal(other Region) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}
