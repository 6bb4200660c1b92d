package dialog

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	ValidatorEmail   = "email"
	ValidatorNumber  = "number"
	ValidatorConfirm = "confirm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailValidator accepts a single address and returns it trimmed.
func EmailValidator(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if !emailPattern.MatchString(text) {
		return nil, false
	}
	return text, true
}

// NumberValidator accepts an unsigned integer that fits an int64 and returns
// it as a string so leading zeros survive.
func NumberValidator(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text[0] < '0' || text[0] > '9' {
		return nil, false
	}
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return nil, false
	}
	return text, true
}

var confirmWords = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true, "sure": true, "ok": true, "true": true,
	"no": false, "n": false, "nope": false, "nah": false, "false": false,
}

// ConfirmValidator maps yes/no answers to a bool.
func ConfirmValidator(text string) (any, bool) {
	v, ok := confirmWords[strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!"))]
	if !ok {
		return nil, false
	}
	return v, true
}

func textValidator(text string) (any, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	return text, true
}
