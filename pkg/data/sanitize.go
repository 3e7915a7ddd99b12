package data

import (
	"errors"
	"regexp"
)

var jsonObject = regexp.MustCompile(`\{[^{}]*\}`)

// SanitizeAnswer extracts the first JSON object from a model completion.
// Models wrap the object in prose or code fences often enough that decoding
// the raw completion directly is not reliable.
func SanitizeAnswer(ans string) (string, error) {
	match := jsonObject.FindString(ans)
	if match == "" {
		return "", errors.New("no JSON object in completion")
	}
	return match, nil
}
