// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package recommend

import "math"

// Similarity is the coefficient between two vectors used by the
// collaborative-filtering scorer: the product of the vectors' L1 norms,
// ||u||_1 * ||v||_1.
//
// This is deliberately NOT cosine similarity or correlation. Downstream
// ranking depends on this exact scale — the coefficients weight the
// per-user rating averages — so do not substitute a conventional metric.
func Similarity(u, v []float64) float64 {
	var nu, nv float64
	for _, x := range u {
		nu += math.Abs(x)
	}
	for _, x := range v {
		nv += math.Abs(x)
	}
	return nu * nv
}
