package expression

import (
	"fmt"
	"strings"
)

var hindiContext = map[Label]string{
	Happy:     "उपयोगकर्ता खुश दिख रहे हैं",
	Content:   "उपयोगकर्ता संतुष्ट दिख रहे हैं",
	Sad:       "उपयोगकर्ता उदास दिख रहे हैं",
	Surprised: "उपयोगकर्ता हैरान दिख रहे हैं",
	Thinking:  "उपयोगकर्ता सोच रहे हैं",
	Sleepy:    "उपयोगकर्ता थके हुए दिख रहे हैं",
	Serious:   "उपयोगकर्ता गंभीर दिख रहे हैं",
	Neutral:   "उपयोगकर्ता शांत दिख रहे हैं",
}

// ContextFor maps a label such as "Happy 😄" to the bracketed context line
// appended to the user's turn. Unknown or empty labels map to "".
func ContextFor(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}

	phrase, ok := hindiContext[Label(fields[0])]
	if !ok {
		return ""
	}
	return fmt.Sprintf("\n[संदर्भ: %s]", phrase)
}
