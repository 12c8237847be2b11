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

// Package units implements unit-aware conversion of climate model parameters.
//
// Emissions are a flux composed of three parts: mass, the species being
// emitted and the time period, e.g. "t CO2 / yr". Mass and time are ordinary
// SI units; every species is registered as its own base dimension so that
// only deliberate conversions are possible. Carbon dioxide emissions can be
// reported in "C" or "CO2" and converting between the two works out of the
// box, whereas converting "CH4" to "C" is forbidden by default because the
// two are different chemical species.
//
// Conversions that cross species boundaries are enabled through contexts:
//
//	uc, err := units.NewConverter("CH4", "C")
//	// err: units are not compatible
//
//	uc, err = units.NewConverterContext("CH4", "C", "CH4_conversions")
//	uc.ConvertFrom(1) // 0.75
//
// Metric contexts (SARGWP100, AR4GWP100, AR5GWP100) convert any registered
// greenhouse gas to its CO2 equivalent using the corresponding global warming
// potential, so "Mt CH4 / yr" can be expressed as "Mt CO2 / yr" under
// AR4GWP100.
//
// Joint mass-species units such as "tC" or "GtCO2" are registered as derived
// units for convenience. Unit names are case-normalised for gases ("HFC4310mee"
// and "HFC4310MEE" are the same unit) and hyphens and underscores are
// stripped before lookup.
package units
