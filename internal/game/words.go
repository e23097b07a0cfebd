package game

import "math/rand"

// defaultWords is the drawing vocabulary used when no custom list is
// configured.
var defaultWords = []string{
	"apple", "computer", "house", "dog", "airplane",
	"guitar", "ocean", "mountain", "car", "tree",
	"elephant", "pizza", "rainbow", "castle", "rocket",
	"butterfly", "lighthouse", "penguin", "volcano", "bicycle",
	"snowman", "dragon", "umbrella", "cactus", "robot",
	"spider", "banana", "telescope", "waterfall", "helicopter",
	"campfire", "octopus", "sandwich", "windmill", "submarine",
	"scarecrow", "tornado", "hamburger", "firework", "mermaid",
}

func randomWord(words []string) string {
	return words[rand.Intn(len(words))]
}
