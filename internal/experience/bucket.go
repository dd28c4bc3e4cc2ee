// Package experience classifies free-text years-of-experience requirements
// ("1-3年", "5年以上", "经验不限") into a fixed set of ordinal buckets.
package experience

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/salarynorm/internal/textutil"
)

// Bucket is an ordinal experience class.
type Bucket string

const (
	ZeroToThree Bucket = "0to3"
	ThreeToFive Bucket = "3to5"
	FivePlus    Bucket = "5plus"
	Unknown     Bucket = "unknown"
)

// Buckets lists every bucket in ordinal order, Unknown last.
var Buckets = []Bucket{ZeroToThree, ThreeToFive, FivePlus, Unknown}

var labels = map[Bucket]string{
	ZeroToThree: "0-3年",
	ThreeToFive: "3-5年",
	FivePlus:    "5年以上",
	Unknown:     "unknown",
}

// entryLevelKeywords mean "no experience required".
var entryLevelKeywords = []string{"不限", "应届", "无经验"}

var (
	rangePattern = regexp.MustCompile(`(\d+)\s*[-~至]\s*(\d+)\s*年`)
	abovePattern = regexp.MustCompile(`(\d+)\s*年以上`)
	belowPattern = regexp.MustCompile(`(\d+)\s*年以[下内]`)
)

// Label returns the human-readable label used in reports.
func (b Bucket) Label() string {
	if l, ok := labels[b]; ok {
		return l
	}
	return labels[Unknown]
}

// Valid reports whether b is one of the four known buckets.
func (b Bucket) Valid() bool {
	_, ok := labels[b]
	return ok
}

func (b Bucket) String() string { return string(b) }

// Classify maps raw to a Bucket. Blank or unrecognised text is Unknown.
// Besides ranges and "N年以上", it also reads "无经验" as ZeroToThree and
// "N年以下"/"N年以内" as the range 0-N; both occur on boards that never
// state a lower bound.
// For ranges the upper bound is tested before the lower one, so "3-5年" is
// ThreeToFive rather than ZeroToThree.
func Classify(raw string) Bucket {
	text := strings.TrimSpace(textutil.Fold(raw))
	if text == "" {
		return Unknown
	}

	for _, kw := range entryLevelKeywords {
		if strings.Contains(text, kw) {
			return ZeroToThree
		}
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		return fromRange(atoi(m[1]), atoi(m[2]))
	}

	if m := abovePattern.FindStringSubmatch(text); m != nil {
		low := atoi(m[1])
		switch {
		case low <= 3:
			return ZeroToThree
		case low < 5:
			return ThreeToFive
		default:
			return FivePlus
		}
	}

	if m := belowPattern.FindStringSubmatch(text); m != nil {
		return fromRange(0, atoi(m[1]))
	}

	return Unknown
}

func fromRange(low, high int) Bucket {
	switch {
	case high <= 3:
		return ZeroToThree
	case low >= 5:
		return FivePlus
	default:
		return ThreeToFive
	}
}

// atoi parses a run of ASCII digits, saturating instead of failing on overflow.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}
