package helpers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spaolacci/murmur3"
)

func DedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}

// returns a fast, compact hash of a string
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOfString(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}

// based on: https://stackoverflow.com/a/48769624, with no trailing period allowed
var urlRegex = regexp.MustCompile(`(?:(?:https?|ftp):\/\/)?[\w/\-?=%.]+\.[\w/\-&?=%.]*[\w/\-&?=%]+`)

// schemeURLRegex only matches URLs with an explicit scheme ("real" links).
var schemeURLRegex = regexp.MustCompile(`(?:https?|ftp):\/\/[\w/\-?=%.]+\.[\w/\-&?=%.]*[\w/\-&?=%]+`)

func ExtractTextURLs(raw string) []string {
	return urlRegex.FindAllString(raw, -1)
}

// ExtractSchemeURLs is like ExtractTextURLs but skips bare domains without an
// explicit scheme.
func ExtractSchemeURLs(raw string) []string {
	return schemeURLRegex.FindAllString(raw, -1)
}

var inviteRegex = regexp.MustCompile(`(?i)(?:discord\.gg|discordapp\.com/invite|discord\.com/invite)/([a-z0-9-]+)`)

// ExtractInviteCodes pulls invite codes out of free-form text, deduplicated,
// in order of first appearance.
func ExtractInviteCodes(raw string) []string {
	var codes []string
	for _, m := range inviteRegex.FindAllStringSubmatch(raw, -1) {
		codes = append(codes, m[1])
	}
	return DedupeStrings(codes)
}

// custom server emoji, eg <:partyparrot:419283719812> or animated <a:...:...>
var customEmojiRegex = regexp.MustCompile(`<a?:\w+:\d+>`)

// CountEmoji counts custom emoji syntax plus unicode emoji codepoints. This
// intentionally counts skin-tone and similar modifiers as separate emoji; the
// spam counters only need a consistent weight, not grapheme-accurate
// segmentation.
func CountEmoji(raw string) int {
	n := len(customEmojiRegex.FindAllString(raw, -1))
	stripped := customEmojiRegex.ReplaceAllString(raw, "")
	for _, r := range stripped {
		if isEmojiRune(r) {
			n++
		}
	}
	return n
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // misc pictographs through symbols extended
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // legacy symbols and dingbats
		return true
	case r == 0x2764: // heavy black heart
		return true
	}
	return false
}

// CountLines counts display lines of a message body: newline count plus one.
// An empty body (attachment-only message) still occupies one line.
func CountLines(raw string) int {
	return strings.Count(raw, "\n") + 1
}

// ExtensionOf returns the lower-cased filename extension without the dot, or
// empty string when there is none.
func ExtensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}
