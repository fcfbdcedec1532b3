package openai

// captionPrompt is the fixed, domain-tuned prompt for image captioning.
const captionPrompt = `Analyze this astronomical image in detail. Identify ` +
	`celestial objects, phenomena and structures visible in the frame, ` +
	`describe dominant colors and spatial relationships, and note any ` +
	`observational characteristics such as exposure style, field of view ` +
	`or instrument artifacts. Respond with a single descriptive paragraph.`
