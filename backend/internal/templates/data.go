package templates

import "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/schema"

func field(key string, v schema.Value) schema.Field {
	return schema.Field{Key: key, Value: v}
}

func text(fields ...[2]string) schema.Map {
	m := make(schema.Map, 0, len(fields))
	for _, f := range fields {
		m = append(m, field(f[0], schema.Text(f[1])))
	}
	return m
}

var defaultSchemas = map[schema.Type]schema.Value{
	schema.JSON: schema.Map{
		field("title", schema.Text("[Brief title for the image]")),
		field("subjects", schema.List{text(
			[2]string{"type", "[Subject type]"},
			[2]string{"description", "[Detailed description of the subject]"},
		)}),
		field("objects", schema.List{text(
			[2]string{"type", "[Object type]"},
			[2]string{"description", "[Detailed description of the object]"},
		)}),
		field("setting", text(
			[2]string{"location", "[Where the scene takes place]"},
			[2]string{"time", "[Time of day or era]"},
		)),
		field("style", text(
			[2]string{"artistic_movement", "[Art style or movement]"},
			[2]string{"mood", "[Overall mood or atmosphere]"},
		)),
		field("color_scheme", schema.Lines("[Main colors used in the image]")),
	},
	schema.HTML: schema.Text(`<title>[Brief title for the image]</title>
<subject>
  <type>[Subject type]</type>
  <description>[Detailed description of the subject]</description>
</subject>
<object>
  <type>[Object type]</type>
  <description>[Detailed description of the object]</description>
</object>
<setting>
  <location>[Where the scene takes place]</location>
  <time>[Time of day or era]</time>
</setting>
<style>
  <artistic_movement>[Art style or movement]</artistic_movement>
  <mood>[Overall mood or atmosphere]</mood>
</style>
<color_scheme>
  <color>[Main color used in the image]</color>
</color_scheme>`),
	schema.Key: schema.Text(`title: [Brief title for the image]
subject.type: [Subject type]
subject.description: [Detailed description of the subject]
object.type: [Object type]
object.description: [Detailed description of the object]
setting.location: [Where the scene takes place]
setting.time: [Time of day or era]
style.artistic_movement: [Art style or movement]
style.mood: [Overall mood or atmosphere]
color_scheme[0]: [Main color used in the image]`),
	schema.AttributeBased: schema.Lines(
		"[Color: description of main colors]",
		"[Lighting: description of lighting conditions]",
		"[Mood: overall atmosphere or feeling]",
		"[Composition: layout and arrangement of elements]",
		"[Style: artistic style or technique]",
	),
	schema.VisualLayerBreakdown: text(
		[2]string{"background", "[Description of the furthest elements]"},
		[2]string{"midground", "[Description of the middle-distance elements]"},
		[2]string{"foreground", "[Description of the closest elements]"},
		[2]string{"focus", "[Main point of interest in the image]"},
	),
	schema.CompositionalGrid: text(
		[2]string{"top_left", "[Description of top-left section]"},
		[2]string{"top_center", "[Description of top-center section]"},
		[2]string{"top_right", "[Description of top-right section]"},
		[2]string{"middle_left", "[Description of middle-left section]"},
		[2]string{"middle_center", "[Description of middle-center section]"},
		[2]string{"middle_right", "[Description of middle-right section]"},
		[2]string{"bottom_left", "[Description of bottom-left section]"},
		[2]string{"bottom_center", "[Description of bottom-center section]"},
		[2]string{"bottom_right", "[Description of bottom-right section]"},
	),
	schema.ArtisticReference: text(
		[2]string{"subject", "[Main focus or theme of the image]"},
		[2]string{"composition", "[Layout and arrangement of elements]"},
		[2]string{"color_palette", "[Main colors and their relationships]"},
		[2]string{"lighting", "[Type and quality of light in the scene]"},
		[2]string{"texture", "[Surface qualities of objects in the image]"},
		[2]string{"artistic_style", "[Overall artistic approach or technique]"},
		[2]string{"mood", "[Emotional tone or atmosphere of the image]"},
	),
}

// Example model outputs indexed by Tier.
var exampleOutputs = map[schema.Type][3]string{
	schema.JSON: {
		`{
  "title": "Simple Cat Portrait",
  "subjects": [{"type": "animal", "description": "cat: furry: domesticated: sitting"}],
  "setting": {"location": "indoors: unspecified", "time": "unspecified"},
  "style": {"artistic_movement": "Realism", "mood": "calm: neutral"},
  "color_scheme": ["gray: soft", "white: clean"]
}`,
		`{
  "title": "Nocturnal Urban Scene",
  "subjects": [{"type": "urban", "description": "city street: busy: crowded"}],
  "objects": [
    {"type": "vehicle", "description": "cars: moving: headlights on"},
    {"type": "building", "description": "skyscrapers: tall: illuminated"}
  ],
  "setting": {"location": "city center: downtown", "time": "night: late"},
  "style": {"artistic_movement": "Urban Realism", "mood": "energetic: lively"},
  "color_scheme": ["black: deep", "yellow: bright: neon", "blue: cool: distant"]
}`,
		`{
  "title": "Futuristic Aquatic Metropolis",
  "subjects": [
    {"type": "mythical", "description": "merpeople: diverse: swimming"},
    {"type": "technology", "description": "underwater gadgets: advanced: floating"}
  ],
  "objects": [
    {"type": "architecture", "description": "buildings: coral-shaped: bioluminescent"},
    {"type": "flora", "description": "seaweed: genetically modified: glowing"},
    {"type": "fauna", "description": "fish: robotic: schooling"}
  ],
  "setting": {"location": "deep ocean: underwater city", "time": "timeless: eternal"},
  "style": {"artistic_movement": "Bio-futurism", "mood": "awe-inspiring: mysterious"},
  "color_scheme": ["blue: bioluminescent", "green: neon", "purple: deep", "silver: metallic"]
}`,
	},
	schema.HTML: {
		`<title>Simple Cat Portrait</title>
<subject>
  <type>animal</type>
  <description>cat: furry: domesticated: sitting</description>
</subject>
<setting>
  <location>indoors: unspecified</location>
  <time>unspecified</time>
</setting>
<style>
  <artistic_movement>Realism</artistic_movement>
  <mood>calm: neutral</mood>
</style>
<color_scheme>
  <color>gray: soft</color>
  <color>white: clean</color>
</color_scheme>`,
		`<title>Nocturnal Urban Scene</title>
<subject>
  <type>urban</type>
  <description>city street: busy: crowded</description>
</subject>
<object>
  <type>vehicle</type>
  <description>cars: moving: headlights on</description>
</object>
<object>
  <type>building</type>
  <description>skyscrapers: tall: illuminated</description>
</object>
<setting>
  <location>city center: downtown</location>
  <time>night: late</time>
</setting>
<style>
  <artistic_movement>Urban Realism</artistic_movement>
  <mood>energetic: lively</mood>
</style>
<color_scheme>
  <color>black: deep</color>
  <color>yellow: bright: neon</color>
  <color>blue: cool: distant</color>
</color_scheme>`,
		`<title>Futuristic Aquatic Metropolis</title>
<subject>
  <type>mythical</type>
  <description>merpeople: diverse: swimming</description>
</subject>
<subject>
  <type>technology</type>
  <description>underwater gadgets: advanced: floating</description>
</subject>
<object>
  <type>architecture</type>
  <description>buildings: coral-shaped: bioluminescent</description>
</object>
<object>
  <type>flora</type>
  <description>seaweed: genetically modified: glowing</description>
</object>
<object>
  <type>fauna</type>
  <description>fish: robotic: schooling</description>
</object>
<setting>
  <location>deep ocean: underwater city</location>
  <time>timeless: eternal</time>
</setting>
<style>
  <artistic_movement>Bio-futurism</artistic_movement>
  <mood>awe-inspiring: mysterious</mood>
</style>
<color_scheme>
  <color>blue: bioluminescent</color>
  <color>green: neon</color>
  <color>purple: deep</color>
  <color>silver: metallic</color>
</color_scheme>`,
	},
	schema.Key: {
		`title: Simple Cat Portrait
subject.type: animal
subject.description: cat: furry: domesticated: sitting
setting.location: indoors: unspecified
setting.time: unspecified
style.artistic_movement: Realism
style.mood: calm: neutral
color_scheme[0]: gray: soft
color_scheme[1]: white: clean`,
		`title: Nocturnal Urban Scene
subject.type: urban
subject.description: city street: busy: crowded
object[0].type: vehicle
object[0].description: cars: moving: headlights on
object[1].type: building
object[1].description: skyscrapers: tall: illuminated
setting.location: city center: downtown
setting.time: night: late
style.artistic_movement: Urban Realism
style.mood: energetic: lively
color_scheme[0]: black: deep
color_scheme[1]: yellow: bright: neon
color_scheme[2]: blue: cool: distant`,
		`title: Futuristic Aquatic Metropolis
subject[0].type: mythical
subject[0].description: merpeople: diverse: swimming
subject[1].type: technology
subject[1].description: underwater gadgets: advanced: floating
object[0].type: architecture
object[0].description: buildings: coral-shaped: bioluminescent
object[1].type: flora
object[1].description: seaweed: genetically modified: glowing
object[2].type: fauna
object[2].description: fish: robotic: schooling
setting.location: deep ocean: underwater city
setting.time: timeless: eternal
style.artistic_movement: Bio-futurism
style.mood: awe-inspiring: mysterious
color_scheme[0]: blue: bioluminescent
color_scheme[1]: green: neon
color_scheme[2]: purple: deep
color_scheme[3]: silver: metallic`,
	},
	schema.AttributeBased: {
		`[Color: gray: soft: white: clean]
[Lighting: neutral: even: soft]
[Mood: calm: serene: peaceful]
[Composition: centered: simple: portrait]
[Style: realistic: straightforward: minimalistic]`,
		`[Color: black: deep: yellow: bright: neon: blue: cool: distant]
[Lighting: high contrast: artificial: street lamps: neon signs: car headlights]
[Mood: energetic: vibrant: bustling: slightly mysterious]
[Composition: dynamic: diagonal: multiple layers: foreground to background]
[Style: urban realism: noir-inspired: contemporary]`,
		`[Color: blue: bioluminescent: green: neon: purple: deep: silver: metallic]
[Lighting: ethereal: glowing: bioluminescent: multiple sources: complex shadows]
[Mood: awe-inspiring: mysterious: futuristic: dreamlike]
[Composition: multi-layered: intricate: vast scale: foreground to background depth]
[Style: bio-futurism: surrealistic: blend of organic and technological]
[Texture: smooth: metallic: organic: coral-like: flowing]
[Motion: fluid: graceful: swirling currents: schools of fish]
[Scale: monumental: sprawling: dwarfing inhabitants]`,
	},
	schema.VisualLayerBreakdown: {
		`background: plain: neutral tone: slightly out of focus
midground: none specified: focus entirely on subject
foreground: single cat: sitting: centered: detailed fur texture
focus: cat's face: eyes: whiskers: defining features clearly visible`,
		`background: night sky: dark: few visible stars: silhouettes of distant skyscrapers
midground: illuminated building facades: neon signs: streetlights: pools of light
foreground: busy street: moving cars: headlights creating light streaks: pedestrians
focus: intersection: traffic flow: interplay of light and shadow`,
		`background: vast ocean depths: dark water: bioluminescent particles: starry effect
midground: coral-shaped skyscrapers: blue-green glow: interconnected transparent tubes
foreground: diverse merpeople: advanced gadgets: schools of robotic fish
focus: central plaza: gathering merpeople: swirling information displays: holographic projections`,
	},
	schema.CompositionalGrid: {
		`top_left: empty: neutral background
top_center: cat's ears: top of head
top_right: empty: neutral background
middle_left: cat's body: side view
middle_center: cat's face: main focus: detailed features
middle_right: cat's body: opposite side view
bottom_left: empty: neutral background
bottom_center: cat's lower body: paws
bottom_right: empty: neutral background`,
		`top_left: skyscraper: lit windows: partial view
top_center: night sky: few stars: maybe moon
top_right: another skyscraper: neon sign
middle_left: street side: walking pedestrians
middle_center: main intersection: traffic lights: car headlights
middle_right: storefront: bright display windows
bottom_left: parked car: partial view: reflective surface
bottom_center: wet street: reflections of lights
bottom_right: street corner: newspaper stand: fire hydrant`,
		`top_left: bioluminescent coral skyscraper: reaching upwards
top_center: school of silver robotic fish: perfect formation
top_right: floating holographic displays: underwater charts: data
middle_left: merpeople: operating advanced underwater vehicles
middle_center: central plaza: giant pulsating energy core
middle_right: seaweed farm: neon green glow: genetically modified
bottom_left: network of transparent tubes: transportation system
bottom_center: diverse merpeople: engaged in discussion: trade
bottom_right: underwater laboratory: visible experiments: large windows`,
	},
	schema.ArtisticReference: {
		`subject: single cat: domestic: sitting pose
composition: centered: simple portrait view: minimal background
color_palette: grayscale: soft grays: clean whites: subtle tonal variations
lighting: even: soft: highlights on fur: gentle shadows
texture: soft fur: visible but not overly detailed
artistic_style: basic realism: minimal embellishment: focus on form
mood: calm: serene: domestic tranquility`,
		`subject: nocturnal urban street scene: busy city life
composition: dynamic diagonal layout: streets and buildings create depth
color_palette: rich blacks: bright yellows: cool blues: pops of neon
lighting: high contrast: dark shadows: bright artificial lights: multiple sources
texture: smooth reflective surfaces: cars and wet streets: rough building facades
artistic_style: urban realism: elements of noir: capturing night city energy
mood: energetic: slightly mysterious: sense of constant motion: urban vitality`,
		`subject: futuristic underwater metropolis: merpeople civilization
composition: multi-layered: overlapping structures: foreground to background depth
color_palette: bioluminescent blues: neon greens: deep purples: metallic silvers
lighting: multiple bioluminescent sources: complex interplay of shadows and glowing elements
texture: contrasting smooth metallic surfaces: organic flowing forms: coral-like structures
artistic_style: bio-futurism: blend of art nouveau organic forms: sci-fi technology: surrealist dreamlike quality
mood: awe-inspiring: mysterious: sense of wonder and endless possibility
motion: implied through swirling water currents: graceful merpeople movements: schools of robotic fish
scale: vast and intricate: monumental structures dwarfing inhabitants: sense of grandeur and exploration`,
	},
}
