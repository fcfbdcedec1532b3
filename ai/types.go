package ai

// Classification is the result of a zero-shot text classification call.
type Classification struct {
	// Label is one of CandidateLabels.
	Label string

	// Score is the similarity between the text and the label, in [0,1].
	Score float64
}

// CandidateLabels defines the category labels used for zero-shot
// classification of APOD entries.
var CandidateLabels = []string{
	"Galaxy",
	"Nebula",
	"Star Cluster",
	"Planet",
	"Comet",
	"Asteroid",
	"Supernova",
	"Black Hole",
	"Dark Matter",
	"Cosmology",
	"Aurora",
	"Rocket Launch",
	"Satellite",
	"Mars Rover",
	"Sun",
	"Moon",
	"Earth/Atmospheric",
	"Solar",
	"Lunar",
	"Human Activity",
	"Diagram/Illustration",
	"Composite/Technical",
}
