package keyword

import (
	"regexp"
	"strconv"
	"strings"
)

// Bounds on the loose-match filler distance. Values outside this range are
// clamped, not rejected, at pattern build time.
const (
	MinLooseFiller = 1
	MaxLooseFiller = 64
)

type PatternOpts struct {
	// FullWord anchors the pattern on word boundaries.
	FullWord bool
	// Loose allows up to FillerChars arbitrary characters between the
	// letters of the word, to catch spaced-out or punctuated evasion.
	Loose       bool
	FillerChars int
	// CaseSensitive disables the default case folding.
	CaseSensitive bool
}

// Compile builds the matching regex for one configured word.
func Compile(word string, opts PatternOpts) (*regexp.Regexp, error) {
	var pattern string
	if opts.Loose {
		filler := opts.FillerChars
		if filler < MinLooseFiller {
			filler = MinLooseFiller
		}
		if filler > MaxLooseFiller {
			filler = MaxLooseFiller
		}
		var parts []string
		for _, r := range word {
			parts = append(parts, regexp.QuoteMeta(string(r)))
		}
		pattern = strings.Join(parts, `[^a-zA-Z0-9]{0,`+strconv.Itoa(filler)+`}`)
	} else {
		pattern = regexp.QuoteMeta(word)
	}
	if opts.FullWord {
		pattern = `\b` + pattern + `\b`
	}
	if !opts.CaseSensitive {
		pattern = `(?i)` + pattern
	}
	return regexp.Compile(pattern)
}
