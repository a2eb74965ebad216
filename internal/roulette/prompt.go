package roulette

// MinOptions is how many options a spin needs.
const MinOptions = 2

var prompts = map[int]string{
	0: "Add two options to start!",
	1: "Add one more option to start!",
}

// Prompt returns the guidance shown in place of the spin control and whether
// the spin control should be visible instead.
func Prompt(n int) (message string, canSpin bool) {
	if msg, ok := prompts[n]; ok {
		return msg, false
	}
	return "", n >= MinOptions
}
