package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"jotunheim-weather/internal/domain"
	"jotunheim-weather/pkg/utils"
)

// MaxSeedLength bounds world seed strings, in bytes.
const MaxSeedLength = 64

// ParseSeed folds a world seed into the numeric seed used by the resolvers.
//
// Empty input is 0. A decimal integer (optionally signed) is used directly,
// wrapped to 32 bits. Anything else is hashed with utils.StringToSeed.
func ParseSeed(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if len(s) > MaxSeedLength {
		return 0, fmt.Errorf("%w: seed longer than %d bytes", domain.ErrInvalidSeed, MaxSeedLength)
	}
	if !utf8.ValidString(s) {
		return 0, fmt.Errorf("%w: seed is not valid UTF-8", domain.ErrInvalidSeed)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return 0, fmt.Errorf("%w: seed contains control characters", domain.ErrInvalidSeed)
		}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return uint32(n), nil
	}
	return utils.StringToSeed(s), nil
}
