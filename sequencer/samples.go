package sequencer

// Sample is one entry of the sample library
type Sample struct {
	ID   Cell
	Name string
}

// SampleCategory groups samples for display
type SampleCategory struct {
	Name  string
	Items []Sample
}

// Samples is the built-in sample library, in display order
var Samples = []SampleCategory{
	{"Core Drums", []Sample{
		{"bd", "Kick"}, {"sd", "Snare"}, {"hh", "Hi-Hat"}, {"cp", "Clap"},
		{"drumtraks", "Retro Kit"}, {"gretsch", "Acoustic"}, {"linnhats", "Linn Hats"},
		{"tok", "Tok Kick"}, {"odx", "New Order"},
	}},
	{"808 Kit", []Sample{
		{"808bd", "Kick"}, {"808sd", "Snare"}, {"808oh", "Open"}, {"808cy", "Cym"},
		{"808hc", "HiCon"}, {"808lc", "LoCon"}, {"808ht", "HiTom"}, {"808mc", "MidCon"},
	}},
	{"Instruments", []Sample{
		{"bass", "Bass Hit"}, {"jungbass", "Jungle Bass"}, {"arpy", "Arpy"},
		{"house", "House Synth"}, {"techno", "Techno"}, {"moog", "Moog"},
		{"juno", "Juno Pad"}, {"sax", "Sax"}, {"sitar", "Sitar"}, {"casio", "Casio"},
	}},
	{"FX & Percussion", []Sample{
		{"gabbaloud", "Gabba"}, {"glitch", "Glitch"}, {"metal", "Metal"}, {"can", "Can"},
		{"bottle", "Bottle"}, {"wind", "Wind"}, {"rave", "Rave Vox"}, {"toys", "Toys"},
		{"industrial", "Industrial"}, {"print", "Printer"}, {"amencutup", "Amen Chop"},
	}},
}

// AllSamples returns the library flattened in display order
func AllSamples() []Sample {
	var out []Sample
	for _, cat := range Samples {
		out = append(out, cat.Items...)
	}
	return out
}

// SampleName returns the display name for id, or id itself if unknown
func SampleName(id Cell) string {
	for _, cat := range Samples {
		for _, s := range cat.Items {
			if s.ID == id {
				return s.Name
			}
		}
	}
	return string(id)
}
