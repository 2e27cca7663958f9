package signs

// assetNames maps a normalized (lowercase) word to the exact base name of
// its video file under /signs/. The filesystem serving the assets is
// case-sensitive and the library was recorded with inconsistent casing
// (ALone.mp4, ME.mp4, bye.mp4, ...), so the exact spelling is kept here
// instead of deriving it from the word.
var assetNames = map[string]string{
	"0": "0", "1": "1", "2": "2", "3": "3", "4": "4",
	"5": "5", "6": "6", "7": "7", "8": "8", "9": "9",
	"a": "A", "b": "B", "c": "C", "d": "D", "e": "E",
	"f": "F", "g": "G", "h": "H", "i": "I", "j": "J",
	"k": "K", "l": "L", "m": "M", "n": "N", "o": "O",
	"p": "P", "q": "Q", "r": "R", "s": "S", "t": "T",
	"u": "U", "v": "V", "w": "W", "x": "X", "y": "Y",
	"z": "Z",

	"after":      "After",
	"again":      "Again",
	"against":    "Against",
	"age":        "Age",
	"all":        "All",
	"alone":      "ALone",
	"also":       "Also",
	"and":        "And",
	"are":        "Are",
	"ask":        "Ask",
	"at":         "At",
	"be":         "Be",
	"beautiful":  "Beautiful",
	"before":     "Before",
	"best":       "Best",
	"better":     "Better",
	"busy":       "Busy",
	"but":        "But",
	"bye":        "bye",
	"can":        "Can",
	"cannot":     "Cannot",
	"change":     "Change",
	"college":    "College",
	"come":       "Come",
	"computer":   "Computer",
	"day":        "Day",
	"distance":   "Distance",
	"do":         "Do",
	"do not":     "Do Not",
	"does not":   "Does Not",
	"eat":        "Eat",
	"engineer":   "Engineer",
	"fight":      "Fight",
	"finish":     "Finish",
	"from":       "From",
	"glitter":    "Glitter",
	"go":         "Go",
	"god":        "God",
	"gold":       "Gold",
	"good":       "Good",
	"great":      "Great",
	"hand":       "Hand",
	"hands":      "Hands",
	"happy":      "Happy",
	"hello":      "Hello",
	"help":       "Help",
	"her":        "Her",
	"here":       "Here",
	"hi":         "Hi",
	"his":        "His",
	"home":       "Home",
	"homepage":   "Homepage",
	"how":        "How",
	"invent":     "Invent",
	"it":         "It",
	"keep":       "Keep",
	"language":   "Language",
	"laugh":      "Laugh",
	"learn":      "Learn",
	"me":         "ME",
	"more":       "More",
	"my":         "My",
	"name":       "Name",
	"need":       "Need",
	"next":       "Next",
	"no":         "No",
	"not":        "Not",
	"now":        "Now",
	"of":         "Of",
	"on":         "On",
	"our":        "Our",
	"out":        "Out",
	"pretty":     "Pretty",
	"right":      "Right",
	"sad":        "Sad",
	"safe":       "Safe",
	"see":        "See",
	"self":       "Self",
	"sign":       "Sign",
	"sing":       "Sing",
	"so":         "So",
	"sound":      "Sound",
	"stay":       "Stay",
	"study":      "Study",
	"talk":       "Talk",
	"television": "Television",
	"thank":      "Thank",
	"thanks":     "Thanks",
	"that":       "That",
	"they":       "They",
	"this":       "This",
	"those":      "Those",
	"time":       "Time",
	"to":         "to",
	"today":      "Today",
	"tv":         "TV",
	"type":       "Type",
	"us":         "Us",
	"walk":       "Walk",
	"wash":       "wash",
	"way":        "Way",
	"we":         "We",
	"welcome":    "Welcome",
	"what":       "What",
	"when":       "when",
	"where":      "Where",
	"which":      "Which",
	"who":        "Who",
	"whole":      "Whole",
	"whose":      "Whose",
	"why":        "Why",
	"will":       "Will",
	"with":       "With",
	"without":    "Without",
	"words":      "Words",
	"work":       "Work",
	"world":      "World",
	"wrong":      "Wrong",
	"you":        "You",
	"your":       "Your",
	"yourself":   "Yourself",
}

// synonyms maps common variations to a canonical key in assetNames. The
// primary map is consulted first; a synonym only applies on a miss there.
var synonyms = map[string]string{
	"hey":   "hello",
	"ty":    "thank",
	"fine":  "good",
	"going": "go",
}

// ModelActions is the vocabulary the backend YOLO model was trained on.
// Quiz generation and the avail-signs endpoint draw from this list; not
// every entry has a recorded video.
var ModelActions = []string{
	"Are", "Can", "Come", "Dont", "Going", "Hello", "Help", "Here",
	"How", "I", "Name", "Need", "Please", "Thanks", "This", "Today",
	"Understand", "What", "Where", "You", "Your",
}
