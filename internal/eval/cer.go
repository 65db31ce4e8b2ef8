package eval

import "unicode"

// CERResult holds detailed character error rate results.
type CERResult struct {
	CER           float64 // Character Error Rate (0.0 = perfect)
	Substitutions int     // Characters replaced with different characters
	Insertions    int     // Extra characters in hypothesis
	Deletions     int     // Characters missing from hypothesis
	RefChars      int     // Total characters in reference
}

// Edits returns the total edit distance.
func (r CERResult) Edits() int { return r.Substitutions + r.Insertions + r.Deletions }

// ComputeCER calculates the character error rate between reference and
// hypothesis. Whitespace and punctuation are ignored on both sides.
// CER = (Substitutions + Insertions + Deletions) / ReferenceCharCount.
func ComputeCER(reference, hypothesis string) CERResult {
	ref := normalizeChars(reference)
	hyp := normalizeChars(hypothesis)

	n := len(ref)
	if n == 0 {
		return CERResult{}
	}
	m := len(hyp)

	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if ref[i-1] == hyp[j-1] {
				d[i][j] = d[i-1][j-1]
				continue
			}
			d[i][j] = min(d[i-1][j-1], d[i-1][j], d[i][j-1]) + 1
		}
	}

	var subs, ins, dels int
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1]:
			i--
			j--
		case i > 0 && j > 0 && d[i][j] == d[i-1][j-1]+1:
			subs++
			i--
			j--
		case i > 0 && d[i][j] == d[i-1][j]+1:
			dels++
			i--
		default:
			ins++
			j--
		}
	}

	return CERResult{
		CER:           float64(subs+ins+dels) / float64(n),
		Substitutions: subs,
		Insertions:    ins,
		Deletions:     dels,
		RefChars:      n,
	}
}

func normalizeChars(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
