package relevance

// term is a single taxonomy entry: the word (or phrase) matched against
// the entry text and the archive category it votes for. Categories align
// with the label set used by the zero-shot classifier.
type term struct {
	word     string
	category string
}

// termGroup is a named slice of related taxonomy terms.
type termGroup struct {
	name  string
	terms []term
}

// taxonomy is the fixed vocabulary of astronomical term groups scanned by
// Validate. Matching is whole-word and case-insensitive.
var taxonomy = []termGroup{
	{name: "deep-space objects", terms: []term{
		{"galaxy", "Galaxy"},
		{"galaxies", "Galaxy"},
		{"spiral galaxy", "Galaxy"},
		{"nebula", "Nebula"},
		{"nebulae", "Nebula"},
		{"star cluster", "Star Cluster"},
		{"globular cluster", "Star Cluster"},
		{"open cluster", "Star Cluster"},
		{"dark matter", "Dark Matter"},
		{"cosmology", "Cosmology"},
		{"quasar", "Cosmology"},
		{"cosmic microwave background", "Cosmology"},
	}},
	{name: "stellar objects", terms: []term{
		{"star", "Star Cluster"},
		{"stars", "Star Cluster"},
		{"supernova", "Supernova"},
		{"supernovae", "Supernova"},
		{"white dwarf", "Supernova"},
		{"red giant", "Supernova"},
		{"neutron star", "Supernova"},
		{"binary star", "Star Cluster"},
		{"variable star", "Star Cluster"},
	}},
	{name: "solar-system bodies", terms: []term{
		{"planet", "Planet"},
		{"planets", "Planet"},
		{"mars", "Planet"},
		{"jupiter", "Planet"},
		{"saturn", "Planet"},
		{"venus", "Planet"},
		{"mercury", "Planet"},
		{"neptune", "Planet"},
		{"uranus", "Planet"},
		{"comet", "Comet"},
		{"asteroid", "Asteroid"},
		{"meteorite", "Asteroid"},
		{"moon", "Moon"},
		{"lunar", "Lunar"},
		{"rover", "Mars Rover"},
	}},
	{name: "solar phenomena", terms: []term{
		{"sun", "Sun"},
		{"solar", "Solar"},
		{"solar flare", "Solar"},
		{"sunspot", "Solar"},
		{"corona", "Solar"},
		{"prominence", "Solar"},
		{"solar eclipse", "Solar"},
		{"coronal mass ejection", "Solar"},
	}},
	{name: "earth-based phenomena", terms: []term{
		{"aurora", "Aurora"},
		{"auroras", "Aurora"},
		{"aurorae", "Aurora"},
		{"milky way", "Galaxy"},
		{"meteor", "Earth/Atmospheric"},
		{"meteor shower", "Earth/Atmospheric"},
		{"airglow", "Earth/Atmospheric"},
		{"noctilucent", "Earth/Atmospheric"},
		{"eclipse", "Lunar"},
	}},
	{name: "exotic objects", terms: []term{
		{"black hole", "Black Hole"},
		{"pulsar", "Black Hole"},
		{"magnetar", "Black Hole"},
		{"gravitational wave", "Black Hole"},
		{"gamma-ray burst", "Black Hole"},
		{"event horizon", "Black Hole"},
	}},
	{name: "observational and technical", terms: []term{
		{"telescope", "Composite/Technical"},
		{"observatory", "Composite/Technical"},
		{"hubble", "Composite/Technical"},
		{"webb", "Composite/Technical"},
		{"spectrum", "Composite/Technical"},
		{"infrared", "Composite/Technical"},
		{"ultraviolet", "Composite/Technical"},
		{"x-ray", "Composite/Technical"},
		{"radio telescope", "Composite/Technical"},
		{"satellite", "Satellite"},
		{"rocket launch", "Rocket Launch"},
	}},
}

// exclusionTerms are substrings that mark an entry as off-topic regardless
// of any astronomical vocabulary it also contains: terrestrial scenery,
// people-centric content, art-making terms, and image-quality defects.
var exclusionTerms = []string{
	"landscape photography",
	"cityscape",
	"portrait of",
	"selfie",
	"family photo",
	"wedding",
	"birthday",
	"oil painting",
	"watercolor",
	"crayon",
	"pencil sketch",
	"hand-drawn",
	"clip art",
	"blurry",
	"out of focus",
	"overexposed",
	"underexposed",
	"watermark",
	"lens cap",
	"test pattern",
}
