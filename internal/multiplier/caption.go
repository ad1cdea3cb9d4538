package multiplier

type Caption struct {
	Headline    string
	Attribution string
	Hint        string
}

var captions = map[Phase]Caption{
	PhaseOne: {
		Headline: `"I am only one..."`,
		Hint:     "Tap to act",
	},
	PhaseExpanding: {
		Headline: `"...but if more like me do the same..."`,
	},
	PhaseBillions: {
		Headline:    `"...we multiply the effects by billions."`,
		Attribution: "- Dr. Jane Goodall",
		Hint:        "You are the spark",
	},
}

func CaptionFor(p Phase) Caption {
	return captions[p]
}
