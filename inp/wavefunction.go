// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/det"
)

// LoadWavefunction reads a trial wavefunction: whitespace-delimited tokens
// grouped into (coefficient, alpha string, beta string) triples, one
// character per orbital with '+' marking occupation. Coefficients are
// normalized to unit 2-norm.
func LoadWavefunction(path string) (coef []float64, psi []det.Det, err error) {
	data, err := readAll(path)
	if err != nil {
		return
	}
	tokens := strings.Fields(data)
	if len(tokens) == 0 || len(tokens)%3 != 0 {
		err = chk.Err("wavefunction file %q: token count %d is not a multiple of 3", path, len(tokens))
		return
	}
	decode := func(s string) det.Spin {
		var sp det.Spin
		for o, r := range s {
			if r == '+' {
				sp = append(sp, o)
			}
		}
		return sp
	}
	for t := 0; t < len(tokens); t += 3 {
		var c float64
		c, err = strconv.ParseFloat(tokens[t], 64)
		if err != nil {
			err = chk.Err("wavefunction file %q: bad coefficient %q", path, tokens[t])
			return
		}
		coef = append(coef, c)
		psi = append(psi, det.Det{Alpha: decode(tokens[t+1]), Beta: decode(tokens[t+2])})
	}
	norm := 0.0
	for _, c := range coef {
		norm += c * c
	}
	norm = math.Sqrt(norm)
	for i := range coef {
		coef[i] /= norm
	}
	return
}

var erefRe = regexp.MustCompile(`E +=.+`)

// LoadERef extracts the reference energy from a free-form text file: the
// last token of the first line matching "E = <number>"
func LoadERef(path string) (float64, error) {
	data, err := readAll(path)
	if err != nil {
		return 0, err
	}
	m := erefRe.FindString(data)
	if m == "" {
		return 0, chk.Err("reference file %q has no E = <number> line", path)
	}
	fields := strings.Fields(strings.TrimSpace(m))
	v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, chk.Err("reference file %q: bad energy token %q", path, fields[len(fields)-1])
	}
	return v, nil
}
