// Package pitchclass translates 12-bin chroma energy vectors into ranked note
// profiles.
package pitchclass

import (
	"math"
	"sort"
)

// Count is the number of pitch classes in a chromatic scale.
const Count = 12

// NoteNames lists pitch classes in chroma bin order.
var NoteNames = [Count]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteIntensity pairs a note name with its rounded mean chroma energy.
type NoteIntensity struct {
	Note      string  `json:"note"`
	Intensity float64 `json:"intensity"`
}

// Translate ranks the 12 pitch classes by descending energy. Equal energies
// keep chroma bin order. Intensities are rounded with Round3 after sorting, so
// ordering reflects the unrounded values.
func Translate(mean [Count]float64) []NoteIntensity {
	order := make([]int, Count)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return mean[order[a]] > mean[order[b]]
	})

	notes := make([]NoteIntensity, 0, Count)
	for _, idx := range order {
		notes = append(notes, NoteIntensity{
			Note:      NoteNames[idx],
			Intensity: Round3(mean[idx]),
		})
	}
	return notes
}

// Round3 rounds to three decimal places, halves away from zero.
func Round3(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return math.Round(value*1000) / 1000
}

// Dominant returns the strongest note of a ranked profile, or "" when empty.
func Dominant(notes []NoteIntensity) string {
	if len(notes) == 0 {
		return ""
	}
	return notes[0].Note
}
