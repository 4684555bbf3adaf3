package main

import "strings"

// 50 from RFC
const maxChannelLength = 50

// Arbitrary. Something low enough we won't hit message limit.
const maxTopicLength = 300

// foldByte applies the RFC 2812 case-folding rule: {|}~ are the lowercase
// equivalents of [\]^, in addition to ordinary ASCII A-Z/a-z folding.
func foldByte(b byte) byte {
	switch b {
	case '[':
		return '{'
	case ']':
		return '}'
	case '\\':
		return '|'
	case '^':
		return '~'
	}
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// foldCase folds a whole string per foldByte. Used to compare/hash nicks and
// channel names.
func foldCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		sb.WriteByte(foldByte(s[i]))
	}
	return sb.String()
}

// canonicalizeNick converts the given nick to its canonical representation
// (which must be unique), per the RFC 2812 case-fold rule.
//
// Note: We don't check validity or strip whitespace.
func canonicalizeNick(n string) string {
	return foldCase(n)
}

// canonicalizeChannel converts the given channel to its canonical
// representation (which must be unique), per the RFC 2812 case-fold rule.
//
// Note: We don't check validity or strip whitespace.
func canonicalizeChannel(c string) string {
	return foldCase(c)
}

// isValidNick checks if a nickname is valid.
func isValidNick(maxLen int, n string) bool {
	if len(n) == 0 || len(n) > maxLen {
		return false
	}

	for i, char := range n {
		if char >= 'a' && char <= 'z' {
			continue
		}
		if char >= 'A' && char <= 'Z' {
			continue
		}

		if char >= '0' && char <= '9' {
			// No digits in first position.
			if i == 0 {
				return false
			}
			continue
		}

		switch char {
		case '_', '-', '[', ']', '\\', '`', '^', '{', '}', '|':
			continue
		}

		return false
	}

	return true
}

// isValidUser checks if a user (USER command) is valid
func isValidUser(maxLen int, u string) bool {
	if len(u) == 0 || len(u) > maxLen {
		return false
	}

	for _, char := range u {
		if char >= 'a' && char <= 'z' || char >= 'A' && char <= 'Z' {
			continue
		}

		if char >= '0' && char <= '9' {
			continue
		}

		return false
	}

	return true
}

// isValidChannel checks a channel name for validity. A channel name must
// start with '#' or '&'.
//
// You should canonicalize it before using this function.
func isValidChannel(c string) bool {
	if len(c) == 0 || len(c) > maxChannelLength {
		return false
	}

	if c[0] != '#' && c[0] != '&' {
		return false
	}

	for i := 1; i < len(c); i++ {
		switch c[i] {
		case ' ', ',', '\x07', ':':
			return false
		}
	}

	return true
}
