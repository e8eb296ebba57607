// internal/namematch/modes.go
package namematch

// Matching modes selectable on the command line.
const (
	ModeFuzzy  = "fuzzy"
	ModeStrict = "strict"
)

// EffectiveMaxDistance returns the fuzzy-stage distance budget given
// the CLI mode and an override value. If maxDistance >= 0, that value
// is used as-is. Otherwise: strict=0, everything else uses fallback.
func EffectiveMaxDistance(mode string, maxDistance, fallback int) int {
	if maxDistance >= 0 {
		return maxDistance
	}
	if mode == ModeStrict {
		return 0
	}
	return fallback
}
