package expression

// Label is one of the eight expressions the classifier can produce.
type Label string

const (
	Happy     Label = "Happy"
	Content   Label = "Content"
	Sleepy    Label = "Sleepy"
	Surprised Label = "Surprised"
	Thinking  Label = "Thinking"
	Serious   Label = "Serious"
	Sad       Label = "Sad"
	Neutral   Label = "Neutral"
)

// RGB is a display color. It encodes to JSON as a three element array.
type RGB [3]uint8

// Result is the outcome of one classification.
type Result struct {
	Label Label
	Color RGB
}

type labelInfo struct {
	marker      string
	color       RGB
	description string
}

var labels = map[Label]labelInfo{
	Happy:     {"😄", RGB{0, 255, 0}, "Strong smile detected"},
	Content:   {"😊", RGB{144, 238, 144}, "Gentle smile with visible eyes"},
	Sad:       {"😢", RGB{138, 43, 226}, "Low facial contrast, downturned mouth"},
	Serious:   {"😐", RGB{250, 128, 114}, "Dark expression, no smile"},
	Thinking:  {"🤔", RGB{255, 69, 0}, "Furrowed brow detected"},
	Surprised: {"😮", RGB{255, 165, 0}, "Eyes wide or no eyes detected"},
	Sleepy:    {"😴", RGB{173, 216, 230}, "Eyes barely open"},
	Neutral:   {"😊", RGB{200, 200, 200}, "Default calm expression"},
}

// All lists every label in catalog order.
var All = []Label{Happy, Content, Sad, Serious, Thinking, Surprised, Sleepy, Neutral}

func (l Label) Valid() bool {
	_, ok := labels[l]
	return ok
}

// Color returns the display color for l, gray for unknown labels.
func (l Label) Color() RGB {
	if info, ok := labels[l]; ok {
		return info.color
	}
	return labels[Neutral].color
}

// Display returns the label followed by its emoji marker, e.g. "Happy 😄".
func (l Label) Display() string {
	info, ok := labels[l]
	if !ok {
		return string(l)
	}
	return string(l) + " " + info.marker
}

func (l Label) Description() string {
	return labels[l].description
}

func resultFor(l Label) Result {
	return Result{Label: l, Color: l.Color()}
}

// Entry describes one label for the public catalog.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       RGB    `json:"color"`
}

// Catalog returns the static description of every supported expression.
func Catalog() []Entry {
	out := make([]Entry, 0, len(All))
	for _, l := range All {
		out = append(out, Entry{
			Name:        l.Display(),
			Description: l.Description(),
			Color:       l.Color(),
		})
	}
	return out
}
