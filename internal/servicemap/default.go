package servicemap

// Default returns a fresh copy of the built-in table.
func Default() Map {
	return Map{}.Merge(builtin)
}

var builtin = Map{
	// The Big Bang Theory
	"1418": {
		"Netflix":            "70143830",
		"Amazon Prime Video": "Penny-und-die-Physiker/dp/B00ET11KBE",
	},
	// How I Met Your Mother
	"1100": {
		"Disney Plus": "how-i-met-your-mother/3kpBeRQiKjkq",
	},
	// Modern Family
	"1421": {
		"Disney Plus": "modern-family/6p2yzz9mh8Kp",
	},
	// Scrubs
	"4556": {
		"Disney Plus": "scrubs/1sOHFVbWpbVb",
	},
	// New Girl
	"1420": {
		"Disney Plus": "new-girl/68TQgz0mtxwT",
	},
	// Brooklyn Nine-Nine
	"48891": {
		"Netflix": "70281562",
	},
	// The Office
	"2316": {
		"Netflix": "70136120",
	},
}
