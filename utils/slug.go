package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
)

const (
	slugSuffixLen      = 5
	slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// SlugBase lowercases the title, transliterates accents and collapses every
// run of non-alphanumerics into a single hyphen.
func SlugBase(title string) string {
	s := strings.ToLower(unidecode.Unidecode(title))
	return nonSlugRun.ReplaceAllString(s, "-")
}

// GenerateSlug builds "<base>-<token>" where token is a short random
// lowercase alphanumeric string.
func GenerateSlug(title string) (string, error) {
	token, err := RandomToken(slugSuffixLen)
	if err != nil {
		return "", err
	}
	return SlugBase(title) + "-" + token, nil
}

// RandomToken returns n characters drawn from [a-z0-9].
func RandomToken(n int) (string, error) {
	max := big.NewInt(int64(len(slugSuffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = slugSuffixAlphabet[idx.Int64()]
	}
	return string(b), nil
}
